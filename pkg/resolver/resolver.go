// Package resolver は優先順位リストとカタログのスナップショットから使用モデルを決めます。
package resolver

import (
	"strings"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
)

const modelPrefix = "models/"

// Resolve は priority のうちカタログに存在する最初の ID を返します。
// 1つも無ければ生成に対応する最初のカタログ項目を返し、それも無ければ
// domain.ErrNoModelAvailable を返します。
// カタログはリクエストごとに取得し直す前提で、ここではキャッシュしません。
func Resolve(priority []string, catalog []domain.ModelCatalogEntry) (string, error) {
	available := make(map[string]string, len(catalog))
	for _, entry := range catalog {
		id := Canonical(entry.ID)
		if _, dup := available[id]; !dup {
			available[id] = entry.ID
		}
	}

	for _, want := range priority {
		if id, ok := available[Canonical(want)]; ok {
			return id, nil
		}
	}

	for _, entry := range catalog {
		if entry.SupportsGeneration {
			return entry.ID, nil
		}
	}
	return "", domain.ErrNoModelAvailable
}

// Canonical は "models/" 接頭辞と前後の空白を取り除いた ID を返します。
func Canonical(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), modelPrefix)
}
