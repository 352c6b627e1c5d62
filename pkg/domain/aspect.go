package domain

import "strings"

// AspectRatio は生成画像の縦横比です。AspectAuto はベース画像から決定します。
type AspectRatio string

const (
	AspectAuto   AspectRatio = "auto"
	AspectSquare AspectRatio = "1:1"
	Aspect4x3    AspectRatio = "4:3"
	Aspect3x4    AspectRatio = "3:4"
	Aspect16x9   AspectRatio = "16:9"
	Aspect9x16   AspectRatio = "9:16"
)

// SupportedAspectRatios は画像生成APIが受け付ける具体的な比率です。
// 並び順は最近傍探索の同点時の優先順位でもあります。
var SupportedAspectRatios = []AspectRatio{
	AspectSquare,
	Aspect4x3,
	Aspect3x4,
	Aspect16x9,
	Aspect9x16,
}

// Ratio は幅/高さを返します。AspectAuto など具体値でなければ 0 です。
func (a AspectRatio) Ratio() float64 {
	switch a {
	case AspectSquare:
		return 1
	case Aspect4x3:
		return 4.0 / 3.0
	case Aspect3x4:
		return 3.0 / 4.0
	case Aspect16x9:
		return 16.0 / 9.0
	case Aspect9x16:
		return 9.0 / 16.0
	}
	return 0
}

// ParseAspectRatio は入力値を検証します。空文字は AspectAuto として扱います。
func ParseAspectRatio(raw string) (AspectRatio, error) {
	a := AspectRatio(strings.ToLower(strings.TrimSpace(raw)))
	if a == "" || a == AspectAuto {
		return AspectAuto, nil
	}
	if a.Ratio() == 0 {
		return "", ErrUnknownAspectRatio
	}
	return a, nil
}
