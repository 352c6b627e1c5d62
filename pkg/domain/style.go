package domain

import "strings"

// Style はデザインのプリセットです。
type Style string

const (
	StyleModern       Style = "modern"
	StyleScandinavian Style = "scandinavian"
	StyleIndustrial   Style = "industrial"
	StyleJapandi      Style = "japandi"
	StyleMidCentury   Style = "mid_century"
	StyleMinimalist   Style = "minimalist"
	StyleLuxury       Style = "luxury"
	StyleBohemian     Style = "bohemian"
	StyleFarmhouse    Style = "farmhouse"
	StyleWabiSabi     Style = "wabi_sabi"
)

// Styles は UI に並べる順序でプリセットを返します。
var Styles = []Style{
	StyleModern,
	StyleScandinavian,
	StyleIndustrial,
	StyleJapandi,
	StyleMidCentury,
	StyleMinimalist,
	StyleLuxury,
	StyleBohemian,
	StyleFarmhouse,
	StyleWabiSabi,
}

var stylePhrases = map[Style]string{
	StyleModern:       "Modern contemporary interior with clean lines, neutral palette, matte finishes and soft indirect lighting",
	StyleScandinavian: "Scandinavian interior with light oak wood, white walls, cozy wool textiles and bright natural daylight",
	StyleIndustrial:   "Industrial loft interior with exposed brick, black steel accents, concrete surfaces and warm Edison lighting",
	StyleJapandi:      "Japandi interior blending Japanese restraint and Nordic comfort, low furniture, natural wood, linen and muted earth tones",
	StyleMidCentury:   "Mid-century modern interior with walnut furniture, tapered legs, mustard and teal accents and graphic lighting",
	StyleMinimalist:   "Minimalist interior with uncluttered surfaces, monochrome palette, hidden storage and generous negative space",
	StyleLuxury:       "Luxury interior with marble, brushed brass details, velvet upholstery and layered ambient lighting",
	StyleBohemian:     "Bohemian interior with layered patterned rugs, rattan furniture, abundant plants and warm eclectic textiles",
	StyleFarmhouse:    "Modern farmhouse interior with shiplap walls, reclaimed wood, wrought iron hardware and cream tones",
	StyleWabiSabi:     "Wabi-sabi interior with lime plaster walls, raw textures, handmade ceramics and calm imperfect natural materials",
}

// Phrase はプリセットに対応する英語の説明文を返します。
func (s Style) Phrase() string {
	return stylePhrases[s]
}

// Valid はプリセットが既知の値かどうかを返します。
func (s Style) Valid() bool {
	_, ok := stylePhrases[s]
	return ok
}

// ParseStyle は大文字小文字とハイフンを許容してプリセットに変換します。
func ParseStyle(raw string) (Style, error) {
	s := Style(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_"))
	if !s.Valid() {
		return "", ErrUnknownStyle
	}
	return s, nil
}
