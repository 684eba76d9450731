package macro

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"QuantPulse/internal/domain/models"
	"QuantPulse/pkg/cache"
)

func TestClassifyCurve(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	cases := []struct {
		spread *float64
		want   string
	}{
		{nil, models.CurveUnknown},
		{f(1.2), models.CurveNormal},
		{f(0.26), models.CurveNormal},
		{f(0.25), models.CurveFlat},
		{f(0.0), models.CurveFlat},
		{f(-0.25), models.CurveFlat},
		{f(-0.5), models.CurveInverted},
	}
	for _, c := range cases {
		if got := ClassifyCurve(c.spread); got != c.want {
			t.Fatalf("spread %v: expected %s, got %s", c.spread, c.want, got)
		}
	}
}

func TestFetchYieldCurve(t *testing.T) {
	prices := map[string]float64{
		"^IRX": 5.2,
		"^FVX": 4.1,
		"^TNX": 4.0,
		"^TYX": 4.3,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Path[len("/v8/finance/chart/"):]
		p, ok := prices[symbol]
		if !ok {
			http.NotFound(w, r)
			return
		}
		resp := map[string]any{
			"chart": map[string]any{
				"result": []any{
					map[string]any{"meta": map[string]any{"regularMarketPrice": p}},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	svc := NewYieldService(srv.URL, 2*time.Second)
	curve, err := svc.FetchYieldCurve(context.Background())
	if err != nil {
		t.Fatalf("fetch curve: %v", err)
	}
	if curve.US10Y == nil || *curve.US10Y != 4.0 {
		t.Fatalf("unexpected 10y leg: %v", curve.US10Y)
	}
	if curve.Spread3M10Y == nil {
		t.Fatalf("spread should be formed")
	}
	// 4.0 - 5.2 = -1.2 -> inverted
	if curve.CurveStatus != models.CurveInverted {
		t.Fatalf("expected INVERTED, got %s", curve.CurveStatus)
	}
}

func TestFetchYieldCurveCached(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		resp := map[string]any{
			"chart": map[string]any{
				"result": []any{
					map[string]any{"meta": map[string]any{"regularMarketPrice": 4.5}},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	svc := NewYieldService(srv.URL, 2*time.Second, WithCurveCache(cache.NewMemoryCache()))
	first, err := svc.FetchYieldCurve(context.Background())
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	fetched := hits

	second, err := svc.FetchYieldCurve(context.Background())
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if hits != fetched {
		t.Fatalf("expected cached curve, got %d extra requests", hits-fetched)
	}
	if second.CurveStatus != first.CurveStatus {
		t.Fatalf("cached status %s differs from fetched %s", second.CurveStatus, first.CurveStatus)
	}
	if second.US10Y == nil || *second.US10Y != *first.US10Y {
		t.Fatalf("cached 10y leg mismatch: %v vs %v", second.US10Y, first.US10Y)
	}
}

func TestFetchYieldCurveMissingLeg(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	svc := NewYieldService(srv.URL, 2*time.Second)
	curve, err := svc.FetchYieldCurve(context.Background())
	if err != nil {
		t.Fatalf("fetch curve: %v", err)
	}
	if curve.CurveStatus != models.CurveUnknown {
		t.Fatalf("expected UNKNOWN when legs missing, got %s", curve.CurveStatus)
	}
}
