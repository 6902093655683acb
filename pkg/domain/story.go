package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ページ数の選択肢です。
const DefaultPageCount = 3

var PageCountOptions = []int{3, 5, 10}

// GenerationRequest は1回のページ本文生成に必要な情報です。実行中のみ存在します。
type GenerationRequest struct {
	Prompt     string
	PageNumber int
	TotalPages int
	Character  Character
	Language   Language
}

// IllustrationRequest は1ページ分の挿絵生成に必要な情報です。
type IllustrationRequest struct {
	SceneText  string
	PageNumber int
	Character  Character
	Language   Language
}

// Page は物語の1ページです。
// ImageData が nil の場合、画像は生成できなかったことを意味します。
type Page struct {
	PageNumber int     `json:"pageNumber"`
	Text       string  `json:"text"`
	ImageData  *string `json:"imageData"`
}

// HasImage は画像が付いているかを返します。
func (p Page) HasImage() bool {
	return p.ImageData != nil && *p.ImageData != ""
}

// Story は生成済みの物語全体です。
type Story struct {
	ID          int64     `json:"id,omitempty"`
	CharacterID int64     `json:"characterId,omitempty"`
	TemplateID  string    `json:"templateId,omitempty"`
	Language    Language  `json:"language"`
	Prompt      string    `json:"prompt"`
	Character   Character `json:"character"`
	Pages       []Page    `json:"pages"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// IllustratedCount は画像付きページの数を返します。
func (s *Story) IllustratedCount() int {
	n := 0
	for _, p := range s.Pages {
		if p.HasImage() {
			n++
		}
	}
	return n
}

// StorySummary は一覧表示用の物語情報です。
type StorySummary struct {
	ID          int64     `json:"id"`
	CharacterID int64     `json:"characterId"`
	TemplateID  string    `json:"templateId"`
	Language    Language  `json:"language"`
	Prompt      string    `json:"prompt"`
	PageCount   int       `json:"pageCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// StoryRequest は呼び出し側（CLI や HTTP）から受け取る生成要求です。
type StoryRequest struct {
	TemplateID  string    `json:"templateId"`
	CharacterID int64     `json:"characterId,omitempty"`
	Character   Character `json:"character"`
	PageCount   int       `json:"pageCount"`
	Language    Language  `json:"language"`
}

// Normalize は未指定の項目に既定値を入れ、言語タグを正規化します。
// 未対応の言語はそのまま残し、Validate で拒否します。
func (r *StoryRequest) Normalize() {
	if r.PageCount == 0 {
		r.PageCount = DefaultPageCount
	}
	if l, err := ParseLanguage(string(r.Language)); err == nil {
		r.Language = l
	}
	r.TemplateID = strings.TrimSpace(r.TemplateID)
}

// Validate は要求の妥当性を検証します。
func (r StoryRequest) Validate() error {
	if r.TemplateID == "" {
		return fmt.Errorf("%w: templateId は必須です", ErrInvalidInput)
	}
	if !slices.Contains(PageCountOptions, r.PageCount) {
		return fmt.Errorf("%w: pageCount は %v のいずれかである必要があります (got %d)", ErrInvalidInput, PageCountOptions, r.PageCount)
	}
	if _, err := ParseLanguage(string(r.Language)); err != nil {
		return err
	}
	return r.Character.Validate()
}
