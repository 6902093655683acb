package domain

import (
	"fmt"
	"strings"
)

// Language は物語の出力言語タグです。
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHebrew  Language = "he"

	DefaultLanguage = LanguageEnglish
)

// languageNames はプロンプトの言語指示に使う表記なのだ。
var languageNames = map[Language]string{
	LanguageEnglish: "ENGLISH",
	LanguageHebrew:  "HEBREW",
}

// SupportedLanguages は対応している言語の一覧を返します。
func SupportedLanguages() []Language {
	return []Language{LanguageEnglish, LanguageHebrew}
}

// ParseLanguage は文字列を Language に変換します。空文字は既定言語として扱います。
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if l == "" {
		return DefaultLanguage, nil
	}
	if _, ok := languageNames[l]; !ok {
		return "", fmt.Errorf("%w: 未対応の言語です: %q", ErrInvalidInput, s)
	}
	return l, nil
}

// IsDefault は既定言語かどうかを返します。
func (l Language) IsDefault() bool {
	return l == "" || l == DefaultLanguage
}

// DisplayName はプロンプトで使う言語名を返します。
func (l Language) DisplayName() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return strings.ToUpper(string(l))
}
