package imgutil

import (
	"bytes"
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
)

func TestNormalize(t *testing.T) {
	t.Run("上限を超える画像は比率を保って縮小される", func(t *testing.T) {
		src := createDummyImageData(t, "png", 1600, 900)

		out, err := Normalize(src, 1024)
		require.NoError(t, err)

		assert.Equal(t, 1024, out.Width)
		assert.Equal(t, 576, out.Height)
		assert.Equal(t, "image/jpeg", out.MIMEType)

		cfg, format, err := image.DecodeConfig(bytes.NewReader(out.Data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 1024, cfg.Width)
		assert.Equal(t, 576, cfg.Height)
	})

	t.Run("縦長の画像は高さが上限になる", func(t *testing.T) {
		src := createDummyImageData(t, "png", 300, 600)

		out, err := Normalize(src, 100)
		require.NoError(t, err)
		assert.Equal(t, 50, out.Width)
		assert.Equal(t, 100, out.Height)
	})

	t.Run("上限より小さい画像は拡大しない", func(t *testing.T) {
		src := createDummyImageData(t, "png", 40, 30)

		out, err := Normalize(src, 1024)
		require.NoError(t, err)
		assert.Equal(t, 40, out.Width)
		assert.Equal(t, 30, out.Height)
	})

	t.Run("上限内のJPEGはそのまま返す", func(t *testing.T) {
		src := createDummyImageData(t, "jpeg", 40, 30)

		out, err := Normalize(src, 1024)
		require.NoError(t, err)
		assert.Equal(t, src, out.Data)
	})

	t.Run("デコードできないデータは ErrInvalidImage", func(t *testing.T) {
		_, err := Normalize([]byte("definitely not an image"), 1024)
		assert.ErrorIs(t, err, domain.ErrInvalidImage)
	})

	t.Run("maxDim が0以下ならデフォルト上限を使う", func(t *testing.T) {
		src := createDummyImageData(t, "png", 2048, 1024)

		out, err := Normalize(src, 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultMaxDimension, out.Width)
	})
}

func TestNormalize_Properties(t *testing.T) {
	const bound = 64

	rapid.Check(t, func(rt *rapid.T) {
		w := rapid.IntRange(1, 200).Draw(rt, "w")
		h := rapid.IntRange(1, 200).Draw(rt, "h")
		src, err := encodeDummyImage("png", w, h)
		if err != nil {
			rt.Fatalf("encode: %v", err)
		}

		first, err := Normalize(src, bound)
		if err != nil {
			rt.Fatalf("normalize: %v", err)
		}

		if first.Width > bound || first.Height > bound {
			rt.Fatalf("%dx%d exceeds bound: %dx%d", w, h, first.Width, first.Height)
		}
		if w <= bound && h <= bound && (first.Width != w || first.Height != h) {
			rt.Fatalf("small image resized: %dx%d -> %dx%d", w, h, first.Width, first.Height)
		}
		if w > bound || h > bound {
			// 短辺は丸め誤差 0.5px 以内
			if w >= h {
				exact := float64(h) * bound / float64(w)
				if first.Height != 1 && math.Abs(float64(first.Height)-exact) > 0.5 {
					rt.Fatalf("aspect drift: %dx%d -> %dx%d", w, h, first.Width, first.Height)
				}
			} else {
				exact := float64(w) * bound / float64(h)
				if first.Width != 1 && math.Abs(float64(first.Width)-exact) > 0.5 {
					rt.Fatalf("aspect drift: %dx%d -> %dx%d", w, h, first.Width, first.Height)
				}
			}
		}

		second, err := Normalize(first.Data, bound)
		if err != nil {
			rt.Fatalf("second normalize: %v", err)
		}
		if !bytes.Equal(first.Data, second.Data) {
			rt.Fatalf("normalize is not idempotent for %dx%d", w, h)
		}
	})
}

func TestDimensions(t *testing.T) {
	w, h, err := Dimensions(createDummyImageData(t, "png", 12, 7))
	require.NoError(t, err)
	assert.Equal(t, 12, w)
	assert.Equal(t, 7, h)

	_, _, err = Dimensions([]byte("nope"))
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestNormalize_TooManyPixels(t *testing.T) {
	// ヘッダだけの GIF で 10000x10000 を名乗らせるのだ。
	header := []byte{'G', 'I', 'F', '8', '9', 'a', 0x10, 0x27, 0x10, 0x27, 0x00, 0x00, 0x00}

	_, err := Normalize(header, 1024)
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
	assert.Contains(t, err.Error(), "10000x10000")
}
