// Package server はパイプラインの前段に置く JSON の HTTP API です。
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/semaphore"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
	"github.com/shouni/gemini-interior-kit/pkg/generator"
	"github.com/shouni/gemini-interior-kit/pkg/usage"
)

// MaxUpstreamCalls は1リクエストがサービスを呼ぶ最大回数です。
// 2段階フローで素材リストを付けると、カタログ取得2回と生成呼び出し3回になります。
const MaxUpstreamCalls = 5

// RequestTimeout は呼び出し1回の上限 callTimeout から、1リクエスト全体の期限を求めます。
func RequestTimeout(callTimeout time.Duration) time.Duration {
	return MaxUpstreamCalls * callTimeout
}

// Generator は HTTP ハンドラから呼び出す生成処理です。*generator.Pipeline が実装します。
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
	Consult(ctx context.Context, question string, images []domain.ImageBlob) (*generator.ConsultResult, error)
}

// Authorizer はアクセスコードと管理用コードを検証します。config.Config が実装します。
type Authorizer interface {
	ValidAccessCode(code string) bool
	ValidAdminCode(code string) bool
}

// Server は API のハンドラ一式です。
type Server struct {
	gen    Generator
	auth   Authorizer
	stats  *usage.Stats
	sem    *semaphore.Weighted
	logger *slog.Logger

	gatherer prometheus.Gatherer
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec

	maxUploadBytes int64
	requestTimeout time.Duration
}

// Option は Server の生成オプションです。
type Option func(*Server)

// WithMaxConcurrent は同時に実行する生成リクエストの上限です。
func WithMaxConcurrent(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithRegistry はメトリクスの登録先と /metrics の公開元を指定します。
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.gatherer = reg
		}
	}
}

// WithMaxUploadBytes はアップロード全体の上限バイト数です。
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithRequestTimeout は生成・相談リクエスト全体の期限です。同時実行枠の待ち時間も含みます。
// http.Server の WriteTimeout はこれより長くしておくこと。
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithLogger はロガーを差し替えます。
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New は依存関係を注入して Server を初期化します。
func New(gen Generator, auth Authorizer, stats *usage.Stats, opts ...Option) (*Server, error) {
	if gen == nil {
		return nil, fmt.Errorf("gen (Generator) is required")
	}
	if auth == nil {
		return nil, fmt.Errorf("auth (Authorizer) is required")
	}
	if stats == nil {
		return nil, fmt.Errorf("stats (*usage.Stats) is required")
	}

	s := &Server{
		gen:            gen,
		auth:           auth,
		stats:          stats,
		sem:            semaphore.NewWeighted(4),
		logger:         slog.Default(),
		maxUploadBytes: 40 << 20,
		requestTimeout: RequestTimeout(180 * time.Second),
	}
	for _, opt := range opts {
		opt(s)
	}

	reg, ok := s.gatherer.(*prometheus.Registry)
	if !ok {
		reg = prometheus.NewRegistry()
		s.gatherer = reg
	}
	s.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "interior",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)
	s.latency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "interior",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 180},
		},
		[]string{"route"},
	)
	if err := reg.Register(s.requests); err != nil {
		return nil, fmt.Errorf("メトリクス登録エラー: %w", err)
	}
	if err := reg.Register(s.latency); err != nil {
		return nil, fmt.Errorf("メトリクス登録エラー: %w", err)
	}

	return s, nil
}

// Handler はルーティング済みの http.Handler を返します。
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.route(mux, "POST /api/generate", s.handleGenerate)
	s.route(mux, "POST /api/consult", s.handleConsult)
	s.route(mux, "GET /api/styles", s.handleStyles)
	s.route(mux, "GET /api/admin/stats", s.handleStats)
	s.route(mux, "POST /api/admin/stats/reset", s.handleStatsReset)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return mux
}

// route はハンドラにアクセスログとメトリクスを被せて登録します。
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)

		elapsed := time.Since(start)
		s.requests.WithLabelValues(pattern, strconv.Itoa(rec.status)).Inc()
		s.latency.WithLabelValues(pattern).Observe(elapsed.Seconds())
		s.logger.InfoContext(r.Context(), "http",
			"method", r.Method, "path", r.URL.Path, "status", rec.status, "dur_ms", elapsed.Milliseconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
