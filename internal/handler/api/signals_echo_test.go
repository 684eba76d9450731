package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"QuantPulse/internal/domain/models"
	"QuantPulse/internal/usecase"
	xlogger "QuantPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type fakeAlertQueue struct {
	types    []string
	payloads []interface{}
}

func (f *fakeAlertQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	f.types = append(f.types, msgType)
	f.payloads = append(f.payloads, payload)
	return nil
}

func postSignificance(t *testing.T, h *SignalsEchoHandler, req models.SignificanceRequest) models.SignificanceResult {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	e := echo.New()
	r := httptest.NewRequest(http.MethodPost, "/api/significance", bytes.NewReader(body))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	if err := h.Significance(e.NewContext(r, w)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var env struct {
		Data models.SignificanceResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Data
}

func newEchoHandler(t *testing.T) (*SignalsEchoHandler, *fakeAlertQueue) {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	h := NewSignalsEchoHandler(log, usecase.NewSignalAggregator(nil), nil, nil, nil, nil)
	q := &fakeAlertQueue{}
	h.SetAlerts(q)
	return h, q
}

func TestSignificancePublishesAlert(t *testing.T) {
	h, q := newEchoHandler(t)

	fav := make([]float64, 30)
	unfav := make([]float64, 30)
	for i := range fav {
		fav[i] = 2.0 + float64(i%3)*0.1
		unfav[i] = -1.0 + float64(i%3)*0.1
	}
	res := postSignificance(t, h, models.SignificanceRequest{
		FactorName:  "vix_regime",
		Favorable:   fav,
		Unfavorable: unfav,
	})

	if !res.Significant {
		t.Fatalf("expected significant result, got %+v", res)
	}
	if len(q.types) != 1 || q.types[0] != usecase.MsgTypeSignificanceAlert {
		t.Fatalf("want one %s publish, got %v", usecase.MsgTypeSignificanceAlert, q.types)
	}
	if got := q.payloads[0].(models.SignificanceResult); got.FactorName != "vix_regime" {
		t.Fatalf("published wrong payload: %+v", got)
	}
}

func TestSignificanceSkipsAlertWhenNotSignificant(t *testing.T) {
	h, q := newEchoHandler(t)

	same := make([]float64, 30)
	for i := range same {
		same[i] = 1.0 + float64(i%5)*0.1
	}
	res := postSignificance(t, h, models.SignificanceRequest{
		FactorName:  "flat_factor",
		Favorable:   same,
		Unfavorable: same,
	})

	if res.Significant {
		t.Fatalf("expected non-significant result, got %+v", res)
	}
	if len(q.types) != 0 {
		t.Fatalf("no publish expected, got %v", q.types)
	}
}
