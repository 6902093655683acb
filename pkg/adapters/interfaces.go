package adapters

import (
	"context"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
)

// TextAdapter はテキスト生成モデルへの1回の呼び出しを担うのだ。
// 成功したが本文が無い場合は空文字を返すのだ。
type TextAdapter interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ImageAdapter は挿絵1枚の生成を担うのだ。
type ImageAdapter interface {
	GenerateImage(ctx context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error)
}
