package generator

import (
	"strings"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
)

// Extraction は応答パーツ列から取り出した内容です。
type Extraction struct {
	Image   *domain.ImageBlob
	Text    string
	Success bool
}

// Extract は最初の画像パーツだけを採用し、全てのテキストパーツを順番通りに連結します。
// Success は画像パーツが存在したときだけ true です。
func Extract(parts []domain.Part) Extraction {
	var (
		ex   Extraction
		text strings.Builder
	)
	for _, part := range parts {
		switch part.Kind {
		case domain.PartImage:
			if ex.Image == nil {
				ex.Image = &domain.ImageBlob{Data: part.Data, MIMEType: part.MIMEType}
			}
		case domain.PartText:
			text.WriteString(part.Text)
		}
	}
	ex.Text = text.String()
	ex.Success = ex.Image != nil
	return ex
}
