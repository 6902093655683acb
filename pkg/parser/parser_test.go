package parser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

func TestBatchRequestParser_Parse(t *testing.T) {
	p := NewBatchRequestParser()

	t.Run("既定値を補って読み込むこと", func(t *testing.T) {
		reqs, err := p.Parse(strings.NewReader(`[
			{"templateId": " ocean ", "character": {"name": "Maya", "age": "5"}},
			{"templateId": "space", "pageCount": 10, "language": " HE ", "character": {"name": "Noam", "age": "7"}}
		]`))
		require.NoError(t, err)
		require.Len(t, reqs, 2)

		assert.Equal(t, "ocean", reqs[0].TemplateID)
		assert.Equal(t, domain.DefaultPageCount, reqs[0].PageCount)
		assert.Equal(t, domain.DefaultLanguage, reqs[0].Language)
		assert.Equal(t, 10, reqs[1].PageCount)
		assert.Equal(t, domain.LanguageHebrew, reqs[1].Language)
	})

	t.Run("不正な入力はエラーとなること", func(t *testing.T) {
		cases := map[string]string{
			"壊れたJSON":    `[{`,
			"空の配列":       `[]`,
			"名前が無い":      `[{"templateId": "ocean", "character": {"age": "5"}}]`,
			"未対応の言語":     `[{"templateId": "ocean", "language": "fr", "character": {"name": "A", "age": "5"}}]`,
			"テンプレート無し":   `[{"character": {"name": "A", "age": "5"}}]`,
			"選択肢に無いページ数": `[{"templateId": "ocean", "pageCount": 4, "character": {"name": "A", "age": "5"}}]`,
			"過大なページ数":    `[{"templateId": "ocean", "pageCount": 100000, "character": {"name": "A", "age": "5"}}]`,
		}
		for name, body := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := p.Parse(strings.NewReader(body))
				assert.Error(t, err)
			})
		}
	})
}

func TestBatchRequestParser_ParseFromPath(t *testing.T) {
	p := NewBatchRequestParser()
	path := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"templateId": "pet", "character": {"name": "Yoni", "age": "3"}}]`), 0o600))

	reqs, err := p.ParseFromPath(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, reqs, 1)

	_, err = p.ParseFromPath(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
