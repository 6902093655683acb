package domain

// LocalizedTemplate は1言語分のタイトルとプレースホルダー付きプロンプトです。
type LocalizedTemplate struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

// Template は物語テンプレートの定義を保持します。
type Template struct {
	ID      string                         `json:"id"`
	Emoji   string                         `json:"emoji"`
	Locales map[Language]LocalizedTemplate `json:"locales"`
}

// Localized は指定言語のテンプレートを返します。
// 指定言語が無い場合は既定言語にフォールバックします。
func (t Template) Localized(lang Language) LocalizedTemplate {
	if lt, ok := t.Locales[lang]; ok {
		return lt
	}
	return t.Locales[DefaultLanguage]
}
