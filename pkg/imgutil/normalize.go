package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
)

const (
	// DefaultMaxDimension は送信前の画像の長辺の上限です。
	DefaultMaxDimension = 1024
	// ImageCompressionQuality は正規化時の JPEG 品質です。
	ImageCompressionQuality = 85
	// MaxPixels を超える画像はデコード前に拒否します。
	MaxPixels = 50_000_000
	mimeJPEG  = "image/jpeg"
)

// Normalized は正規化済みの画像です。
type Normalized struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// Normalize は画像を3チャンネル RGB の JPEG に揃え、長辺が maxDim を超える場合だけ
// アスペクト比を保って縮小します。拡大はしません。
// 既に上限内の YCbCr JPEG はそのまま返すため、Normalize を2回適用しても結果は変わりません。
func Normalize(data []byte, maxDim int) (*Normalized, error) {
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}

	w, h, err := Dimensions(data)
	if err != nil {
		return nil, err
	}
	if w*h > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", domain.ErrInvalidImage, w, h, MaxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty bounds", domain.ErrInvalidImage)
	}

	width, height := FitWithin(b.Dx(), b.Dy(), maxDim)

	if _, isYCbCr := img.(*image.YCbCr); format == "jpeg" && isYCbCr && width == b.Dx() && height == b.Dy() {
		return &Normalized{Data: data, MIMEType: mimeJPEG, Width: width, Height: height}, nil
	}

	out, err := encodeJPEG(flatten(img, width, height), ImageCompressionQuality)
	if err != nil {
		return nil, fmt.Errorf("JPEGエンコードに失敗しました: %w", err)
	}
	return &Normalized{Data: out, MIMEType: mimeJPEG, Width: width, Height: height}, nil
}

// FitWithin は長辺が maxDim に収まる寸法を返します。既に収まっていれば入力のままです。
func FitWithin(width, height, maxDim int) (int, int) {
	if width <= maxDim && height <= maxDim {
		return width, height
	}
	if width >= height {
		return maxDim, max(1, int(math.Round(float64(height)*float64(maxDim)/float64(width))))
	}
	return max(1, int(math.Round(float64(width)*float64(maxDim)/float64(height)))), maxDim
}

// Dimensions はピクセルデータをデコードせずに幅と高さを読み取ります。
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	return cfg.Width, cfg.Height, nil
}
