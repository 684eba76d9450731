package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	domrepo "QuantPulse/internal/domain/repository"
	icache "QuantPulse/internal/service/cache"
	"QuantPulse/internal/service/metrics"
	"QuantPulse/internal/service/ratelimit"
	"QuantPulse/internal/usecase"
	applogger "QuantPulse/pkg/logger"
)

// SignalsHandler serves the plain net/http variants of the signal
// endpoints with per-client rate limiting and short-TTL caching. The
// Echo handler is the primary surface; this one backs internal tooling.
type SignalsHandler struct {
	agg   *usecase.SignalAggregator
	cache icache.BytesCache
	rl    *ratelimit.Limiter
	l     *applogger.Logger

	defaultThreshold float64
	regimeTTL        time.Duration
	recoveryTTL      time.Duration
}

func NewSignalsHandler(agg *usecase.SignalAggregator) *SignalsHandler {
	metrics.Register()
	return &SignalsHandler{
		agg:              agg,
		rl:               ratelimit.New(),
		defaultThreshold: 0.05,
		regimeTTL:        30 * time.Second,
		recoveryTTL:      60 * time.Second,
	}
}

func (h *SignalsHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetLogger injects a structured logger.
func (h *SignalsHandler) SetLogger(l *applogger.Logger) { h.l = l }

// SetTuning overrides the default recovery threshold and cache TTLs.
// Zero values keep the built-in defaults.
func (h *SignalsHandler) SetTuning(threshold float64, regimeTTL, recoveryTTL time.Duration) {
	if threshold > 0 {
		h.defaultThreshold = threshold
	}
	if regimeTTL > 0 {
		h.regimeTTL = regimeTTL
	}
	if recoveryTTL > 0 {
		h.recoveryTTL = recoveryTTL
	}
}

func (h *SignalsHandler) Regime() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		endpoint := "regime"
		defer func() { metrics.SignalLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			if h.l != nil {
				h.l.Warn("signals.regime missing symbol")
			}
			http.Error(w, "symbol required", http.StatusBadRequest)
			return
		}
		n := parseInt(r.URL.Query().Get("n"), 300)
		tf := domrepo.NormalizeTimeframe(r.URL.Query().Get("tf"))
		if !h.rl.Allow(r.RemoteAddr+":regime", 5, 2) {
			if h.l != nil {
				h.l.Warn("signals.regime rate_limited", applogger.String("remote", r.RemoteAddr))
			}
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		cacheKey := "regime:" + symbol + ":" + string(tf) + ":" + strconv.Itoa(n)
		if b, ok := h.cached(cacheKey, endpoint); ok {
			writeJSON(w, b, h.l, endpoint)
			return
		}
		res, err := h.agg.LatestRegime(r.Context(), symbol, n, tf)
		if err != nil {
			metrics.SignalErrors.WithLabelValues(endpoint).Inc()
			if h.l != nil {
				h.l.Error("signals.regime error", applogger.Error(err))
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		metrics.RegimeConfidence.WithLabelValues(symbol, string(res.Regime)).Set(res.ConfidencePct)
		b, err := json.Marshal(res)
		if err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
			return
		}
		h.store(cacheKey, b, h.regimeTTL, endpoint)
		writeJSON(w, b, h.l, endpoint)
	}
}

func (h *SignalsHandler) Recovery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		endpoint := "recovery"
		defer func() { metrics.SignalLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			if h.l != nil {
				h.l.Warn("signals.recovery missing symbol")
			}
			http.Error(w, "symbol required", http.StatusBadRequest)
			return
		}
		n := parseInt(r.URL.Query().Get("n"), 2500)
		threshold := parseFloat(r.URL.Query().Get("threshold"), h.defaultThreshold)
		tf := domrepo.NormalizeTimeframe(r.URL.Query().Get("tf"))
		if !h.rl.Allow(r.RemoteAddr+":recovery", 3, 1) {
			if h.l != nil {
				h.l.Warn("signals.recovery rate_limited", applogger.String("remote", r.RemoteAddr))
			}
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		cacheKey := "recovery:" + symbol + ":" + string(tf) + ":" + strconv.Itoa(n) + ":" + strconv.FormatFloat(threshold, 'f', -1, 64)
		if b, ok := h.cached(cacheKey, endpoint); ok {
			writeJSON(w, b, h.l, endpoint)
			return
		}
		res, err := h.agg.Recovery(r.Context(), symbol, n, tf, threshold)
		if err != nil {
			metrics.SignalErrors.WithLabelValues(endpoint).Inc()
			if h.l != nil {
				h.l.Error("signals.recovery error", applogger.Error(err))
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		b, err := json.Marshal(res)
		if err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
			return
		}
		h.store(cacheKey, b, h.recoveryTTL, endpoint)
		writeJSON(w, b, h.l, endpoint)
	}
}

func (h *SignalsHandler) cached(key, endpoint string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		if h.l != nil {
			h.l.Warn("signals cache_get_error", applogger.String("endpoint", endpoint), applogger.Error(err))
		}
		return nil, false
	}
	if ok && h.l != nil {
		h.l.Debug("signals cache_hit", applogger.String("key", key))
	}
	return b, ok
}

func (h *SignalsHandler) store(key string, b []byte, ttl time.Duration, endpoint string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.SetBytes(key, b, ttl); err != nil && h.l != nil {
		h.l.Warn("signals cache_set_error", applogger.String("endpoint", endpoint), applogger.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, b []byte, l *applogger.Logger, endpoint string) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(b); err != nil && l != nil {
		l.Warn("signals write_error", applogger.String("endpoint", endpoint), applogger.Error(err))
	}
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}
