package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// テスト用のダミー画像（w x h のグラデーション）を作成するヘルパー
func createDummyImageData(t *testing.T, format string, w, h int) []byte {
	t.Helper()
	data, err := encodeDummyImage(format, w, h)
	if err != nil {
		t.Fatalf("failed to encode dummy image: %v", err)
	}
	return data
}

func encodeDummyImage(format string, w, h int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, uint8(x % 256), uint8(y % 256), 255})
		}
	}

	buf := new(bytes.Buffer)
	var err error
	switch format {
	case "png":
		err = png.Encode(buf, img)
	case "jpeg":
		err = jpeg.Encode(buf, img, nil)
	default:
		err = fmt.Errorf("unsupported format: %s", format)
	}
	return buf.Bytes(), err
}

func TestCompressToJPEG(t *testing.T) {
	t.Run("正常なPNG画像をJPEGに圧縮できること", func(t *testing.T) {
		pngData := createDummyImageData(t, "png", 10, 10)

		got, err := CompressToJPEG(pngData, 75)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(got) == 0 {
			t.Error("expected output data, but got empty")
		}

		// 出力がJPEGとしてデコード可能か確認
		_, format, err := image.Decode(bytes.NewReader(got))
		if err != nil {
			t.Errorf("failed to decode output image: %v", err)
		}
		if format != "jpeg" {
			t.Errorf("expected format jpeg, got %s", format)
		}
	})

	t.Run("不正なデータを与えた場合にエラーを返すこと", func(t *testing.T) {
		invalidData := []byte("this is not an image")
		_, err := CompressToJPEG(invalidData, 75)
		if err == nil {
			t.Error("expected error for invalid data, but got nil")
		}
	})

	t.Run("Quality設定によってサイズが変化すること", func(t *testing.T) {
		input := createDummyImageData(t, "png", 64, 64)

		highQuality, _ := CompressToJPEG(input, 100)
		lowQuality, _ := CompressToJPEG(input, 10)

		if len(lowQuality) >= len(highQuality) {
			t.Errorf("low quality size (%d) should be smaller than high quality size (%d)", len(lowQuality), len(highQuality))
		}
	})

	t.Run("透過部分は白で塗りつぶされること", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
		buf := new(bytes.Buffer)
		if err := png.Encode(buf, img); err != nil {
			t.Fatal(err)
		}

		got, err := CompressToJPEG(buf.Bytes(), 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		decoded, _, err := image.Decode(bytes.NewReader(got))
		if err != nil {
			t.Fatal(err)
		}
		r, g, b, _ := decoded.At(4, 4).RGBA()
		if r>>8 < 250 || g>>8 < 250 || b>>8 < 250 {
			t.Errorf("expected white background, got (%d,%d,%d)", r>>8, g>>8, b>>8)
		}
	})
}

func TestConvertToPNG(t *testing.T) {
	t.Run("JPEG画像をPNGに変換できること", func(t *testing.T) {
		jpegData := createDummyImageData(t, "jpeg", 20, 10)

		got, err := ConvertToPNG(jpegData)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg, format, err := image.DecodeConfig(bytes.NewReader(got))
		if err != nil {
			t.Fatalf("failed to decode output image: %v", err)
		}
		if format != "png" {
			t.Errorf("expected format png, got %s", format)
		}
		if cfg.Width != 20 || cfg.Height != 10 {
			t.Errorf("expected 20x10, got %dx%d", cfg.Width, cfg.Height)
		}
	})

	t.Run("不正なデータを与えた場合にエラーを返すこと", func(t *testing.T) {
		if _, err := ConvertToPNG([]byte("not an image")); err == nil {
			t.Error("expected error for invalid data, got nil")
		}
	})
}
