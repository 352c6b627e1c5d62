package imgutil

import (
	"math"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
)

// NearestAspectRatio は幅/高さに最も近い対応比率を返します。
// 差が同じ場合は domain.SupportedAspectRatios の並び順で先のものを選びます。
func NearestAspectRatio(width, height int) domain.AspectRatio {
	if width <= 0 || height <= 0 {
		return domain.AspectSquare
	}
	r := float64(width) / float64(height)

	best := domain.SupportedAspectRatios[0]
	bestDiff := math.Abs(r - best.Ratio())
	for _, a := range domain.SupportedAspectRatios[1:] {
		if d := math.Abs(r - a.Ratio()); d < bestDiff {
			best, bestDiff = a, d
		}
	}
	return best
}

// ResolveAspectRatio は AspectAuto をベース画像の寸法から具体値に解決します。
func ResolveAspectRatio(a domain.AspectRatio, width, height int) domain.AspectRatio {
	if a == "" || a == domain.AspectAuto {
		return NearestAspectRatio(width, height)
	}
	return a
}
