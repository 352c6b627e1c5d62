package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/shouni/gemini-interior-kit/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON HTTP API.

Endpoints:
  POST /api/generate             multipart upload (access_code, base, aux, style, ...)
  POST /api/consult              {"access_code": "...", "question": "..."}
  GET  /api/styles               style presets and aspect ratios
  GET  /api/admin/stats          usage per access code (X-Admin-Code header)
  POST /api/admin/stats/reset    clear usage counts
  GET  /metrics                  Prometheus metrics`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides WEB_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}

	addr := a.cfg.WebAddr
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		addr = v
	}

	api, err := server.New(a.pipeline, a.cfg, a.stats,
		server.WithRegistry(a.registry),
		server.WithMaxConcurrent(a.cfg.MaxConcurrent),
		server.WithRequestTimeout(server.RequestTimeout(a.cfg.HTTPTimeout)),
		server.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	if len(a.cfg.AccessCodes) == 0 {
		a.logger.Warn("ACCESS_CODES が未設定のため、生成リクエストは全て拒否されます")
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout(a.cfg.HTTPTimeout),
		IdleTimeout:       90 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("web started", "addr", addr, "max_concurrent", a.cfg.MaxConcurrent)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		a.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

const (
	readTimeout   = 60 * time.Second
	responseSlack = 30 * time.Second
)

// writeTimeout はアップロードの読み込み、リクエスト全体の期限、応答の書き出しを足したものです。
// WriteTimeout はヘッダ読み込み後から数えるため readTimeout も含めます。
// パイプラインが先に期限で打ち切られるので、利用回数だけ加算されて接続が切れることはありません。
func writeTimeout(callTimeout time.Duration) time.Duration {
	return readTimeout + server.RequestTimeout(callTimeout) + responseSlack
}
