package prompts

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

const (
	templatePageText  = "page_text"
	templatePageImage = "page_image"
)

var (
	//go:embed page_text.md
	PageTextPrompt string
	//go:embed page_image.md
	PageImagePrompt string
)

// pageTextData は本文テンプレートに渡すデータです。
type pageTextData struct {
	domain.GenerationRequest
	LanguageDirective string
}

// StoryPromptBuilder は本文と挿絵の指示文テンプレートを管理します。
type StoryPromptBuilder struct {
	templates map[string]*template.Template
}

// NewStoryPromptBuilder は埋め込みテンプレートを解析して StoryPromptBuilder を初期化します。
func NewStoryPromptBuilder() (*StoryPromptBuilder, error) {
	sources := map[string]string{
		templatePageText:  PageTextPrompt,
		templatePageImage: PageImagePrompt,
	}

	parsed := make(map[string]*template.Template, len(sources))
	for name, content := range sources {
		if strings.TrimSpace(content) == "" {
			return nil, fmt.Errorf("プロンプトテンプレート '%s' (go:embed) の読み込みに失敗しました: 内容が空です", name)
		}
		tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
		if err != nil {
			return nil, fmt.Errorf("プロンプト '%s' の解析に失敗: %w", name, err)
		}
		parsed[name] = tmpl
	}

	return &StoryPromptBuilder{templates: parsed}, nil
}

// BuildPageText は1ページ分の本文生成指示を構築します。
// 既定言語以外の場合のみ言語指示を付与します。
func (b *StoryPromptBuilder) BuildPageText(req domain.GenerationRequest) (string, error) {
	data := pageTextData{GenerationRequest: req}
	if !req.Language.IsDefault() {
		data.LanguageDirective = " IN " + req.Language.DisplayName()
	}
	return b.execute(templatePageText, data)
}

// BuildPageImage は1ページ分の挿絵生成指示を構築します。
func (b *StoryPromptBuilder) BuildPageImage(req domain.IllustrationRequest) (string, error) {
	return b.execute(templatePageImage, req)
}

func (b *StoryPromptBuilder) execute(name string, data any) (string, error) {
	tmpl, ok := b.templates[name]
	if !ok {
		return "", fmt.Errorf("不明なテンプレートです: '%s'", name)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}
