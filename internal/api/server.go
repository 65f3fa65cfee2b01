package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/internal/metrics"
	"github.com/selivandex/sentiment-pulse/pkg/clock"
	"github.com/selivandex/sentiment-pulse/pkg/errors"
	"github.com/selivandex/sentiment-pulse/pkg/logger"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

const maxIngestBytes = 4 << 20

// Dashboard answers the read side of the API
type Dashboard interface {
	GetData(ctx context.Context, coin string, refresh bool) (*models.AggregatedResult, error)
	AnalyzeCoin(ctx context.Context, coin string) (*models.CoinSummary, error)
	Trending(ctx context.Context) ([]models.TrendingCoin, error)
	Urgent(ctx context.Context, coin string) (*models.UrgentReport, error)
	AgentData(ctx context.Context) (*models.MarketOverview, error)
	Coins(ctx context.Context) []string
	Refresh(ctx context.Context, coin string) (*models.AggregatedResult, error)
}

// InsightGenerator produces the AI summary for a coin
type InsightGenerator interface {
	Generate(ctx context.Context, coin string, summary *models.CoinSummary) *models.AIInsight
}

// MessageSink stores raw messages pushed through the API
type MessageSink interface {
	Add(msgs ...models.RawMessage)
}

// HealthCheck reports the state of one dependency
type HealthCheck func(ctx context.Context) error

// Server exposes the dashboard over HTTP together with probes and /metrics
type Server struct {
	server    *http.Server
	mux       *http.ServeMux
	dashboard Dashboard
	insights  InsightGenerator
	checks    map[string]HealthCheck
	clock     clock.Clock
	ready     bool
	readyMu   sync.RWMutex
	startTime time.Time
}

// HealthStatus represents system health
type HealthStatus struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// TrendingResponse wraps the trending coins with the response time
type TrendingResponse struct {
	Trending  []models.TrendingCoin `json:"trending"`
	Timestamp time.Time             `json:"timestamp"`
}

// CoinInsightResponse is a coin summary together with its AI insight
type CoinInsightResponse struct {
	Analysis *models.CoinSummary `json:"analysis"`
	Insight  *models.AIInsight   `json:"ai_insights"`
}

// IngestResponse reports how many pushed messages were stored
type IngestResponse struct {
	Accepted int `json:"accepted"`
}

// RefreshResponse acknowledges a forced refresh
type RefreshResponse struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	LastUpdated time.Time `json:"last_updated"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type refreshRequest struct {
	Coin  string `json:"coin"`
	Token string `json:"token"`
}

type analyzeRequest struct {
	Coin string `json:"coin"`
}

// NewServer creates new API server; insights and checks may be nil
func NewServer(addr string, dashboard Dashboard, insights InsightGenerator, checks map[string]HealthCheck, clk clock.Clock) *Server {
	if clk == nil {
		clk = clock.System{}
	}

	mux := http.NewServeMux()

	s := &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		mux:       mux,
		dashboard: dashboard,
		insights:  insights,
		checks:    checks,
		clock:     clk,
		startTime: clk.Now(),
	}

	mux.HandleFunc("GET /api/data", s.handleData)
	mux.HandleFunc("GET /api/coins", s.handleCoins)
	mux.HandleFunc("GET /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/insight", s.handleInsight)
	mux.HandleFunc("GET /api/trending", s.handleTrending)
	mux.HandleFunc("GET /api/urgent", s.handleUrgent)
	mux.HandleFunc("GET /api/agent-data", s.handleAgentData)
	mux.HandleFunc("POST /api/refresh_data", s.handleRefresh)

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReadiness)
	mux.Handle("GET /metrics", metrics.Handler())

	return s
}

// Handler returns the routed handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Ingest enables POST /api/messages, which appends a JSON array of raw
// messages to sink. They are counted once cached results expire or are
// refreshed.
func (s *Server) Ingest(sink MessageSink) {
	s.mux.HandleFunc("POST /api/messages", func(w http.ResponseWriter, r *http.Request) {
		s.handleIngest(w, r, sink)
	})
}

// Start serves until Stop is called
func (s *Server) Start() error {
	logger.Info("api server starting",
		zap.String("addr", s.server.Addr),
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	logger.Info("stopping api server...")
	return s.server.Shutdown(ctx)
}

// SetReady marks the service as ready
func (s *Server) SetReady(ready bool) {
	s.readyMu.Lock()
	defer s.readyMu.Unlock()
	s.ready = ready

	if ready {
		logger.Info("service marked as ready")
	} else {
		logger.Warn("service marked as not ready")
	}
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	coin := r.URL.Query().Get("coin")
	refresh := strings.EqualFold(r.URL.Query().Get("refresh"), "true")

	result, err := s.dashboard.GetData(r.Context(), coin, refresh)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCoins(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboard.Coins(r.Context()))
}

// handleAnalyze reads the coin from the query on GET; on POST the
// X-Coin-Name header wins over the JSON body
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	coin := r.URL.Query().Get("coin")
	if r.Method == http.MethodPost {
		coin = r.Header.Get("X-Coin-Name")
		if coin == "" {
			var body analyzeRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				coin = body.Coin
			}
		}
	}

	summary, err := s.dashboard.AnalyzeCoin(r.Context(), coin)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	coin := r.URL.Query().Get("coin")

	summary, err := s.dashboard.AnalyzeCoin(r.Context(), coin)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := CoinInsightResponse{Analysis: summary}
	if s.insights != nil {
		resp.Insight = s.insights.Generate(r.Context(), summary.Coin, summary)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	trending, err := s.dashboard.Trending(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TrendingResponse{Trending: trending, Timestamp: s.clock.Now()})
}

func (s *Server) handleUrgent(w http.ResponseWriter, r *http.Request) {
	report, err := s.dashboard.Urgent(r.Context(), r.URL.Query().Get("coin"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAgentData(w http.ResponseWriter, r *http.Request) {
	overview, err := s.dashboard.AgentData(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// handleRefresh accepts an optional {"coin": ...} body; "token" is an alias
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	coin := body.Coin
	if coin == "" {
		coin = body.Token
	}

	if _, err := s.dashboard.Refresh(r.Context(), coin); err != nil {
		s.writeError(w, r, err)
		return
	}

	target := "all coins"
	if coin != "" {
		target = coin
	}
	writeJSON(w, http.StatusOK, RefreshResponse{
		Success:     true,
		Message:     "Data refreshed successfully for " + target,
		LastUpdated: s.clock.Now(),
	})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request, sink MessageSink) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxIngestBytes))
	dec.UseNumber()

	var raws []models.RawMessage
	if err := dec.Decode(&raws); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	kept := raws[:0]
	for _, raw := range raws {
		if raw != nil {
			kept = append(kept, raw)
		}
	}
	sink.Add(kept...)

	logger.Info("messages ingested",
		zap.Int("accepted", len(kept)),
		zap.Int("received", len(raws)),
	)
	writeJSON(w, http.StatusAccepted, IngestResponse{Accepted: len(kept)})
}

// handleHealth is the liveness probe; it stays 200 while the process is up
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Version:   Version,
		Timestamp: s.clock.Now().UTC().Format(time.RFC3339),
		Uptime:    s.clock.Now().Sub(s.startTime).Round(time.Second).String(),
	}

	if r.URL.Query().Get("verbose") == "true" {
		status.Checks, _ = s.runChecks(r.Context())
	}

	writeJSON(w, http.StatusOK, status)
}

// handleReadiness returns 200 only after startup completed and every
// dependency check passes
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	s.readyMu.RLock()
	ready := s.ready
	s.readyMu.RUnlock()

	checks, healthy := s.runChecks(r.Context())
	ready = ready && healthy

	status := HealthStatus{
		Status:    "ready",
		Version:   Version,
		Timestamp: s.clock.Now().UTC().Format(time.RFC3339),
		Uptime:    s.clock.Now().Sub(s.startTime).Round(time.Second).String(),
		Checks:    checks,
	}

	code := http.StatusOK
	if !ready {
		status.Status = "not_ready"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (s *Server) runChecks(ctx context.Context) (map[string]string, bool) {
	results := make(map[string]string, len(s.checks))
	healthy := true

	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			results[name] = "unhealthy: " + err.Error()
			healthy = false
			continue
		}
		results[name] = "healthy"
	}

	return results, healthy
}

// writeError maps domain errors to status codes; everything else is a 500
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, errors.ErrInvalidInput) {
		code = http.StatusBadRequest
	}

	if code == http.StatusInternalServerError {
		logger.Error("api request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", zap.Error(err))
	}
}
