package domain

// ImageBlob はアップロードされた画像、または生成された画像のバイナリです。
type ImageBlob struct {
	Data     []byte
	MIMEType string
}

// GenerationRequest は部屋写真1枚と家具写真を合成する生成要求です。
// AccessCode は外部の認証層で検証済みであることを前提とします。
type GenerationRequest struct {
	AccessCode       string
	Base             ImageBlob   // 部屋の写真（必須）
	Auxiliary        []ImageBlob // 家具・小物の参照画像（任意、順序を保持）
	Style            Style
	Note             string
	IncludeMaterials bool
	AspectRatio      AspectRatio
	Flow             Flow
	Seed             *int64 // nil でランダム
}

// GenerationResult は1リクエスト分の生成結果です。呼び出し元に返したら保持しません。
type GenerationResult struct {
	Image       *ImageBlob
	Text        string
	Model       string
	Success     bool
	Prompt      string // 2段階フローで画像生成に渡したプロンプト
	AspectRatio string // 実際に送信したアスペクト比（未指定なら空）
}

// Flow はサービスの呼び出し形状を選びます。
type Flow string

const (
	// FlowDirect は画像とテキストを一度にマルチモーダル呼び出しへ渡します。
	FlowDirect Flow = "direct"
	// FlowDescribeThenRender はまずプロンプトを書かせ、専用の画像生成APIで描画します。
	FlowDescribeThenRender Flow = "describe_then_render"
)

// ParseFlow は文字列を Flow に変換します。空文字は FlowDirect です。
func ParseFlow(s string) (Flow, error) {
	switch Flow(s) {
	case "", FlowDirect:
		return FlowDirect, nil
	case FlowDescribeThenRender:
		return FlowDescribeThenRender, nil
	}
	return "", ErrUnknownFlow
}
