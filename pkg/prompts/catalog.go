package prompts

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

//go:embed templates.json
var templatesJSON []byte

// Catalog は物語テンプレートの一覧を、定義順を保ったまま保持します。
type Catalog struct {
	templates []domain.Template
	byID      map[string]int
}

var (
	defaultCatalog *Catalog
	defaultOnce    sync.Once
	defaultErr     error
)

// DefaultCatalog は組み込みのテンプレートカタログを返します。
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = LoadCatalog(bytes.NewReader(templatesJSON))
	})
	return defaultCatalog, defaultErr
}

// LoadCatalog は JSON 配列からカタログを読み込みます。
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var templates []domain.Template
	if err := json.NewDecoder(r).Decode(&templates); err != nil {
		return nil, fmt.Errorf("テンプレート定義のデコードに失敗しました: %w", err)
	}
	return NewCatalog(templates)
}

// NewCatalog はテンプレートのスライスからカタログを構築します。
func NewCatalog(templates []domain.Template) (*Catalog, error) {
	c := &Catalog{
		templates: make([]domain.Template, 0, len(templates)),
		byID:      make(map[string]int, len(templates)),
	}
	for _, t := range templates {
		if t.ID == "" {
			return nil, fmt.Errorf("テンプレートIDが空です")
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("テンプレートIDが重複しています: %s", t.ID)
		}
		if _, ok := t.Locales[domain.DefaultLanguage]; !ok {
			return nil, fmt.Errorf("テンプレート '%s' に既定言語 (%s) の定義がありません", t.ID, domain.DefaultLanguage)
		}
		c.byID[t.ID] = len(c.templates)
		c.templates = append(c.templates, t)
	}
	return c, nil
}

// All は定義順のテンプレート一覧を返します。
func (c *Catalog) All() []domain.Template {
	out := make([]domain.Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Get は ID からテンプレートを取得します。
func (c *Catalog) Get(id string) (domain.Template, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return domain.Template{}, false
	}
	return c.templates[idx], true
}

// Len はテンプレート数を返します。
func (c *Catalog) Len() int {
	return len(c.templates)
}
