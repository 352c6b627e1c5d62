// Package prompt はサービスに渡す指示文を組み立てます。
package prompt

import (
	"strings"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
)

const (
	// ConstraintBlock は部屋の構造を保つための最優先の制約です。
	ConstraintBlock = `STRICT CONSTRAINTS:
- The first image is the user's room. Preserve its structural layout exactly: walls, windows, doors, floor, ceiling, camera angle and perspective must not change.
- Do not add, remove or move architectural elements.
- Only integrate the furniture and decor items shown in the additional images (if any) into the room, at a plausible scale, with lighting and shadows that match the scene.`

	// DefaultNote はユーザーのメモが空のときに使う中立的な文言です。
	DefaultNote = "No additional requests; use your best professional judgement for placement and styling."

	// MaterialsDirective は素材リストを必ず出力させる指示です。最後に置きます。
	MaterialsDirective = `MANDATORY: After the image, output a materials list as a Markdown table with the columns | Item | Material | Color / Finish | Estimated Cost |. Cover every major surface and furniture piece visible in the result.`

	// ConsultPersona は相談モードのシステム指示です。
	ConsultPersona = "You are a top-tier interior designer with deep expertise in renovation budgets, space planning and modern aesthetics. Give professional, detailed and practical advice."
)

// Compose は直接生成フローの指示文を固定順で連結します。
// 制約 → スタイル → メモ → 素材リスト指示 の順序は変更しないこと。
func Compose(style domain.Style, note string, includeMaterials bool) string {
	sections := []string{
		ConstraintBlock,
		"STYLE: " + style.Phrase() + ".",
		"USER NOTES: " + noteOrDefault(note),
	}
	if includeMaterials {
		sections = append(sections, MaterialsDirective)
	}
	return strings.Join(sections, "\n\n")
}

// Describe は2段階フローの1段目で使う、画像生成用プロンプトを書かせる指示文です。
func Describe(style domain.Style, note string) string {
	return strings.Join([]string{
		"You are writing a prompt for a text-to-image model that cannot see the attached photos.",
		"Describe, in a single English paragraph of at most 200 words, a photorealistic interior render of the room in the first image, keeping its exact layout, perspective, windows and doors, furnished with the items from the other images.",
		"Target style: " + style.Phrase() + ".",
		"User notes: " + noteOrDefault(note),
		"Output only the prompt text, without preamble, quotes or Markdown.",
	}, "\n")
}

// MaterialsFor は2段階フローで、描画プロンプトに対応する素材リストを書かせる指示文です。
func MaterialsFor(renderPrompt string) string {
	return "The following text describes an interior design render:\n\n" + renderPrompt + "\n\n" +
		"Output only a materials list as a Markdown table with the columns | Item | Material | Color / Finish | Estimated Cost |, covering every major surface and furniture piece described."
}

func noteOrDefault(note string) string {
	if n := strings.TrimSpace(note); n != "" {
		return note
	}
	return DefaultNote
}
