package prompts

import (
	"strings"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// プレースホルダーのトークンです。
const (
	PlaceholderName          = "{name}"
	PlaceholderAge           = "{age}"
	PlaceholderGender        = "{gender}"
	PlaceholderFavoriteThing = "{favoriteThing}"
)

// FillTemplate は、テンプレート文字列中のプレースホルダーをキャラクターの属性で置換します。
// すべての出現箇所を一度に置換し、置換後の文字列を再走査しません。
func FillTemplate(tmpl string, c domain.Character) string {
	r := strings.NewReplacer(
		PlaceholderName, c.Name,
		PlaceholderAge, c.Age,
		PlaceholderGender, c.Gender,
		PlaceholderFavoriteThing, c.FavoriteThing,
	)
	return r.Replace(tmpl)
}
