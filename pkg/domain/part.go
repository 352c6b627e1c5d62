package domain

// PartKind は Part がどちらの値を持つかを示すタグです。
type PartKind int

const (
	PartText PartKind = iota
	PartImage
)

// Part はサービス応答の1単位で、テキストか画像のどちらか一方です。
type Part struct {
	Kind     PartKind
	Text     string
	Data     []byte
	MIMEType string
}

// TextPart はテキストの Part を作ります。
func TextPart(text string) Part {
	return Part{Kind: PartText, Text: text}
}

// ImagePart はインライン画像の Part を作ります。
func ImagePart(data []byte, mimeType string) Part {
	return Part{Kind: PartImage, Data: data, MIMEType: mimeType}
}
