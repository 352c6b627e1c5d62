package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
	"github.com/shouni/gemini-interior-kit/pkg/imgutil"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render a restyled room image from local files",
	Long: `Render a restyled room image from a base photo and optional furniture references.

Examples:
  interior-kit generate --base room.jpg --style scandinavian -o out.png
  interior-kit generate --base room.jpg --aux sofa.png --aux lamp.png --style japandi --materials
  interior-kit generate --base room.jpg --style luxury --flow describe_then_render --aspect 16:9`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.String("base", "", "Path to the base room photo (required)")
	f.StringArray("aux", nil, "Path to a furniture/decor reference image (repeatable)")
	f.String("style", string(domain.StyleModern), "Style preset")
	f.String("note", "", "Free-text instructions")
	f.Bool("materials", false, "Also produce a materials list")
	f.String("aspect", string(domain.AspectAuto), "Aspect ratio (auto, 1:1, 4:3, 3:4, 16:9, 9:16)")
	f.String("flow", string(domain.FlowDirect), "Generation flow (direct, describe_then_render)")
	f.Int64("seed", 0, "Seed for reproducible output")
	f.StringP("out", "o", "interior.png", "Output image path (.png and .jpg are re-encoded to match)")
	f.String("access-code", "cli", "Access code recorded in usage stats")
	_ = generateCmd.MarkFlagRequired("base")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	basePath, _ := f.GetString("base")
	auxPaths, _ := f.GetStringArray("aux")
	styleRaw, _ := f.GetString("style")
	note, _ := f.GetString("note")
	materials, _ := f.GetBool("materials")
	aspectRaw, _ := f.GetString("aspect")
	flowRaw, _ := f.GetString("flow")
	outPath, _ := f.GetString("out")
	code, _ := f.GetString("access-code")

	style, err := domain.ParseStyle(styleRaw)
	if err != nil {
		return fmt.Errorf("%w: %q", err, styleRaw)
	}
	aspect, err := domain.ParseAspectRatio(aspectRaw)
	if err != nil {
		return fmt.Errorf("%w: %q", err, aspectRaw)
	}
	flow, err := domain.ParseFlow(flowRaw)
	if err != nil {
		return fmt.Errorf("%w: %q", err, flowRaw)
	}

	base, err := readImageFile(basePath)
	if err != nil {
		return err
	}
	var aux []domain.ImageBlob
	for _, p := range auxPaths {
		blob, err := readImageFile(p)
		if err != nil {
			return err
		}
		aux = append(aux, blob)
	}

	req := domain.GenerationRequest{
		AccessCode:       code,
		Base:             base,
		Auxiliary:        aux,
		Style:            style,
		Note:             note,
		IncludeMaterials: materials,
		AspectRatio:      aspect,
		Flow:             flow,
	}
	if f.Changed("seed") {
		seed, _ := f.GetInt64("seed")
		req.Seed = &seed
	}

	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	res, err := a.pipeline.Generate(cmd.Context(), req)
	if res != nil && res.Text != "" {
		fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNoImageProduced) {
			return fmt.Errorf("モデルは画像を返しませんでした (%s): %w", res.Model, err)
		}
		return err
	}

	data, err := encodeForPath(outPath, *res.Image)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("画像の保存に失敗しました: %w", err)
	}
	a.logger.Info("画像を保存しました", "path", outPath, "model", res.Model, "aspect_ratio", res.AspectRatio, "mime_type", res.Image.MIMEType)
	if res.Prompt != "" {
		a.logger.Debug("描画プロンプト", "prompt", res.Prompt)
	}
	return nil
}

// encodeForPath は出力先の拡張子に合わせて画像を再エンコードします。
// .png/.jpg/.jpeg 以外の拡張子ではサービスが返したバイト列をそのまま書きます。
func encodeForPath(path string, img domain.ImageBlob) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		if img.MIMEType == "image/jpeg" {
			return img.Data, nil
		}
		data, err := imgutil.CompressToJPEG(img.Data, imgutil.ImageCompressionQuality)
		if err != nil {
			return nil, fmt.Errorf("JPEG変換に失敗しました: %w", err)
		}
		return data, nil
	case ".png":
		if img.MIMEType == "image/png" {
			return img.Data, nil
		}
		data, err := imgutil.ConvertToPNG(img.Data)
		if err != nil {
			return nil, fmt.Errorf("PNG変換に失敗しました: %w", err)
		}
		return data, nil
	default:
		return img.Data, nil
	}
}

func readImageFile(path string) (domain.ImageBlob, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return domain.ImageBlob{}, fmt.Errorf("画像ファイルの読み込みに失敗しました: %w", err)
	}
	mimeType := http.DetectContentType(data)
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return domain.ImageBlob{Data: data, MIMEType: mimeType}, nil
}
