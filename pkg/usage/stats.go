// Package usage はアクセスコードごとの生成回数をプロセス内で集計します。
// 再起動をまたいだ永続化はしません。
package usage

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
)

// Stats は利用回数の集計です。合計と per-code の更新は1つのロックで行うため、
// Total は常に per-code の総和と一致します。
type Stats struct {
	mu      sync.Mutex
	total   int64
	perCode map[string]int64

	generations prometheus.Counter
}

// Option は Stats の生成オプションです。
type Option func(*Stats) error

// WithRegisterer は生成回数の合計を Prometheus のカウンタにも反映します。
// アクセスコードは認証情報なのでラベルにはしません。コード別の内訳は Snapshot だけで返します。
// Reset はローカルの集計だけを消し、カウンタは単調増加のまま残ります。
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Stats) error {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "interior",
			Name:      "generations_total",
			Help:      "Number of successful renders",
		})
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
			existing, ok := are.ExistingCollector.(prometheus.Counter)
			if !ok {
				return err
			}
			c = existing
		}
		s.generations = c
		return nil
	}
}

// NewStats は空の集計を作ります。
func NewStats(opts ...Option) (*Stats, error) {
	s := &Stats{perCode: make(map[string]int64)}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Record は成功した生成を1件加算します。
func (s *Stats) Record(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	s.perCode[code]++
	if s.generations != nil {
		s.generations.Inc()
	}
}

// Count はアクセスコード1つ分の回数を返します。
func (s *Stats) Count(code string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.perCode[code]
}

// Total は全体の回数を返します。
func (s *Stats) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Snapshot は現在の集計のコピーを返します。
func (s *Stats) Snapshot() domain.UsageSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	perCode := make(map[string]int64, len(s.perCode))
	for k, v := range s.perCode {
		perCode[k] = v
	}
	return domain.UsageSnapshot{Total: s.total, PerCode: perCode}
}

// Reset は集計をゼロに戻します。
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total = 0
	s.perCode = make(map[string]int64)
}
