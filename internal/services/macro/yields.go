package macro

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"QuantPulse/internal/domain/models"
	domsvc "QuantPulse/internal/domain/service"
	pkgcache "QuantPulse/pkg/cache"
	xhttp "QuantPulse/pkg/http"
)

// Treasury yield quote symbols, in curve order.
var yieldSymbols = map[string]string{
	"us_3m":  "^IRX",
	"us_5y":  "^FVX",
	"us_10y": "^TNX",
	"us_30y": "^TYX",
}

// Spread band for the NORMAL / FLAT / INVERTED classification.
const curveFlatBand = 0.25

// Snapshot cache key and TTL for the fetched curve.
const (
	curveCacheKey = "macro:yield_curve"
	curveCacheTTL = 5 * time.Minute
)

// YieldService fetches Treasury yields over HTTP and classifies the
// curve from the 3M-10Y spread.
type YieldService struct {
	baseURL string
	client  *xhttp.Client
	cache   pkgcache.Service
}

type YieldOption func(*YieldService)

// WithCurveCache caches fetched curves for a few minutes.
func WithCurveCache(c pkgcache.Service) YieldOption {
	return func(s *YieldService) { s.cache = c }
}

func NewYieldService(baseURL string, timeout time.Duration, opts ...YieldOption) *YieldService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s := &YieldService{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClassifyCurve labels the yield curve from the 3M-10Y spread.
func ClassifyCurve(spread *float64) string {
	switch {
	case spread == nil:
		return models.CurveUnknown
	case *spread > curveFlatBand:
		return models.CurveNormal
	case *spread < -curveFlatBand:
		return models.CurveInverted
	default:
		return models.CurveFlat
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

func (s *YieldService) fetchYield(ctx context.Context, symbol string) (*float64, error) {
	if s.client == nil || s.baseURL == "" {
		return nil, fmt.Errorf("yield client not initialized")
	}
	var cr chartResponse
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    s.baseURL + "/v8/finance/chart/" + symbol,
		QueryParams: map[string][]string{
			"range":    {"5d"},
			"interval": {"1d"},
		},
	}, &cr)
	if err != nil {
		return nil, fmt.Errorf("fetch yield %s: %w", symbol, err)
	}
	if len(cr.Chart.Result) == 0 {
		return nil, nil
	}
	v := cr.Chart.Result[0].Meta.RegularMarketPrice
	return &v, nil
}

// FetchYieldCurve snapshots the Treasury curve. Legs that fail to fetch
// are left nil; the classification degrades to UNKNOWN only when the
// spread cannot be formed.
func (s *YieldService) FetchYieldCurve(ctx context.Context) (models.YieldCurve, error) {
	if s.cache != nil {
		var raw string
		if err := s.cache.Get(ctx, curveCacheKey, &raw); err == nil {
			var cached models.YieldCurve
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	yields := make(map[string]*float64, len(yieldSymbols))
	for name, symbol := range yieldSymbols {
		v, err := s.fetchYield(ctx, symbol)
		if err != nil {
			yields[name] = nil
			continue
		}
		yields[name] = v
	}

	var spread *float64
	if yields["us_3m"] != nil && yields["us_10y"] != nil {
		d := *yields["us_10y"] - *yields["us_3m"]
		spread = &d
	}

	curve := models.YieldCurve{
		US3M:        yields["us_3m"],
		US5Y:        yields["us_5y"],
		US10Y:       yields["us_10y"],
		US30Y:       yields["us_30y"],
		Spread3M10Y: spread,
		CurveStatus: ClassifyCurve(spread),
		AsOf:        time.Now().UTC(),
	}
	if s.cache != nil {
		if raw, err := json.Marshal(curve); err == nil {
			_ = s.cache.Set(ctx, curveCacheKey, string(raw), curveCacheTTL)
		}
	}
	return curve, nil
}

var _ domsvc.YieldSource = (*YieldService)(nil)
