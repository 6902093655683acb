package prompts

import (
	"strings"
	"testing"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

var alice = domain.Character{Name: "Alice", Age: "5", Gender: domain.GenderGirl, FavoriteThing: "unicorns"}

func TestFillTemplate(t *testing.T) {
	t.Run("すべてのプレースホルダーが置換されること", func(t *testing.T) {
		got := FillTemplate("{name} is {age}, a {gender} who loves {favoriteThing}", alice)
		want := "Alice is 5, a girl who loves unicorns"
		if got != want {
			t.Errorf("期待値 '%s', 実際の値 '%s'", want, got)
		}
	})

	t.Run("同じプレースホルダーの複数出現がすべて置換されること", func(t *testing.T) {
		got := FillTemplate("{name} and {name}", alice)
		if got != "Alice and Alice" {
			t.Errorf("期待値 'Alice and Alice', 実際の値 '%s'", got)
		}
	})

	t.Run("同じキャラクターで繰り返し適用しても結果が変わらないこと", func(t *testing.T) {
		once := FillTemplate("a story about {name}", alice)
		twice := FillTemplate(once, alice)
		if once != twice {
			t.Errorf("冪等ではありません: '%s' != '%s'", once, twice)
		}
	})

	t.Run("置換した値に含まれるトークンは再置換しないこと", func(t *testing.T) {
		c := alice
		c.Name = "{age}"
		got := FillTemplate("{name}", c)
		if got != "{age}" {
			t.Errorf("期待値 '{age}', 実際の値 '%s'", got)
		}
	})
}

func TestDefaultCatalog(t *testing.T) {
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("組み込みカタログの読み込みに失敗しました: %v", err)
	}

	t.Run("テンプレートが空でないこと", func(t *testing.T) {
		if catalog.Len() == 0 {
			t.Fatal("テンプレートが1件もありません")
		}
		if catalog.Len() != 13 {
			t.Errorf("期待値 13 件, 実際の値 %d 件", catalog.Len())
		}
	})

	t.Run("各テンプレートが英語とヘブライ語の定義を持つこと", func(t *testing.T) {
		for _, tmpl := range catalog.All() {
			if tmpl.ID == "" || tmpl.Emoji == "" {
				t.Errorf("ID または絵文字が空です: %+v", tmpl)
			}
			for _, lang := range domain.SupportedLanguages() {
				lt, ok := tmpl.Locales[lang]
				if !ok {
					t.Errorf("%s に %s の定義がありません", tmpl.ID, lang)
					continue
				}
				if lt.Title == "" || lt.Prompt == "" {
					t.Errorf("%s/%s のタイトルまたはプロンプトが空です", tmpl.ID, lang)
				}
			}
		}
	})

	t.Run("IDが一意であること", func(t *testing.T) {
		seen := map[string]bool{}
		for _, tmpl := range catalog.All() {
			if seen[tmpl.ID] {
				t.Errorf("IDが重複しています: %s", tmpl.ID)
			}
			seen[tmpl.ID] = true
		}
	})

	t.Run("埋め込み後にプレースホルダーが残らないこと", func(t *testing.T) {
		for _, tmpl := range catalog.All() {
			for lang, lt := range tmpl.Locales {
				filled := FillTemplate(lt.Prompt, alice)
				if strings.Contains(filled, "{") || strings.Contains(filled, "}") {
					t.Errorf("%s/%s に未置換のプレースホルダーがあります: %s", tmpl.ID, lang, filled)
				}
			}
		}
	})

	t.Run("IDで取得できること", func(t *testing.T) {
		tmpl, ok := catalog.Get("potty-training")
		if !ok {
			t.Fatal("potty-training が見つかりません")
		}
		if tmpl.Emoji != "🚽" {
			t.Errorf("期待値 '🚽', 実際の値 '%s'", tmpl.Emoji)
		}
		if _, ok := catalog.Get("unknown"); ok {
			t.Error("存在しないIDで取得できてしまいました")
		}
	})
}

func TestLoadCatalog(t *testing.T) {
	t.Run("ID重複はエラーになること", func(t *testing.T) {
		input := `[
			{"id": "a", "emoji": "x", "locales": {"en": {"title": "A", "prompt": "p"}}},
			{"id": "a", "emoji": "y", "locales": {"en": {"title": "B", "prompt": "q"}}}
		]`
		if _, err := LoadCatalog(strings.NewReader(input)); err == nil {
			t.Error("重複IDでエラーが発生しませんでした")
		}
	})

	t.Run("既定言語が無いとエラーになること", func(t *testing.T) {
		input := `[{"id": "a", "emoji": "x", "locales": {"he": {"title": "A", "prompt": "p"}}}]`
		if _, err := LoadCatalog(strings.NewReader(input)); err == nil {
			t.Error("英語定義なしでエラーが発生しませんでした")
		}
	})

	t.Run("不正なJSONはエラーになること", func(t *testing.T) {
		if _, err := LoadCatalog(strings.NewReader(`{ invalid json }`)); err == nil {
			t.Error("不正なJSONでエラーが発生しませんでした")
		}
	})
}
