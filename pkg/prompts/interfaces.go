package prompts

import "github.com/shouni/go-storybook-kit/pkg/domain"

// StoryPrompt は、ページ本文と挿絵の指示文を構築する契約です。
type StoryPrompt interface {
	// BuildPageText は、1ページ分の本文を生成させる指示文を返します。
	BuildPageText(req domain.GenerationRequest) (string, error)
	// BuildPageImage は、1ページ分の本文を場面とする挿絵の指示文を返します。
	BuildPageImage(req domain.IllustrationRequest) (string, error)
}
