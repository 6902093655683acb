package generator

import (
	"context"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// PageGenerator は1ページ分の本文と挿絵を生成する契約です。
// 本文の失敗はエラーとして返し、挿絵の失敗は nil として返します。
type PageGenerator interface {
	GenerateText(ctx context.Context, prompt string, pageNumber, totalPages int, character domain.Character, language domain.Language) (string, error)
	GenerateImage(ctx context.Context, narrativeText string, pageNumber int, character domain.Character, language domain.Language) *string
}
