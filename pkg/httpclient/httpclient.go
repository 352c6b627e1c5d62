// Package httpclient は genai SDK に渡す *http.Client を組み立てます。
package httpclient

import (
	"context"
	"net"
	"net/http"
	"time"
)

// DefaultTimeout は画像生成の長い応答を待てるように長めに取っています。
const DefaultTimeout = 180 * time.Second

// Options は New に渡すクライアントの設定です。
// PreferIPv4 は IPv6 経路が不安定な環境向けに tcp4 で接続します。Timeout が 0 以下なら DefaultTimeout です。
type Options struct {
	PreferIPv4 bool
	Timeout    time.Duration
}

// New はタイムアウトと接続設定を調整したクライアントを返します。
// 生成リクエストのリトライはしないため、Timeout が1回の呼び出しの上限になります。
func New(opts Options) *http.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dialer := &net.Dialer{
		Timeout:   15 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialContext(dialer, opts.PreferIPv4),
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   15 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

func dialContext(dialer *net.Dialer, preferIPv4 bool) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		if preferIPv4 && network == "tcp" {
			network = "tcp4"
		}
		return dialer.DialContext(ctx, network, addr)
	}
}
