package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

type storyRow struct {
	ID            int64  `db:"id"`
	CharacterID   int64  `db:"character_id"`
	TemplateID    string `db:"template_id"`
	Language      string `db:"language"`
	Prompt        string `db:"prompt"`
	CreatedAt     string `db:"created_at"`
	Name          string `db:"name"`
	Age           string `db:"age"`
	Gender        string `db:"gender"`
	FavoriteThing string `db:"favorite_thing"`
}

type pageRow struct {
	PageNumber    int    `db:"page_number"`
	ImageData     string `db:"image_data"`
	ImageMIMEType string `db:"image_mime_type"`
	TextContent   string `db:"text_content"`
}

func (r pageRow) toDomain() domain.Page {
	p := domain.Page{PageNumber: r.PageNumber, Text: r.TextContent}
	if r.ImageData != "" {
		uri := domain.BuildImageDataURI(r.ImageMIMEType, r.ImageData)
		p.ImageData = &uri
	}
	return p
}

type storySummaryRow struct {
	ID          int64  `db:"id"`
	CharacterID int64  `db:"character_id"`
	TemplateID  string `db:"template_id"`
	Language    string `db:"language"`
	Prompt      string `db:"prompt"`
	CreatedAt   string `db:"created_at"`
	PageCount   int    `db:"page_count"`
}

// CreateStory は物語と全ページを1トランザクションで保存し、採番された ID を返します。
// ページ番号はスライス上の位置（1始まり）で振り直します。
func (s *Store) CreateStory(ctx context.Context, story *domain.Story) (id int64, err error) {
	createdAt := s.now()
	lang := story.Language
	if lang == "" {
		lang = domain.DefaultLanguage
	}

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			rollback(ctx, tx)
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO stories (character_id, prompt, template_id, language, created_at) VALUES (?, ?, ?, ?, ?)`,
		nullInt64(story.CharacterID), story.Prompt, nullString(story.TemplateID), string(lang), formatTime(createdAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert story: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("story id: %w", err)
	}

	for i, page := range story.Pages {
		var data, mimeType sql.NullString
		if page.ImageData != nil && *page.ImageData != "" {
			m, payload := domain.ParseImageDataURI(*page.ImageData)
			data = nullString(payload)
			mimeType = nullString(m)
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO pages (story_id, page_number, image_data, image_mime_type, text_content) VALUES (?, ?, ?, ?, ?)`,
			id, i+1, data, mimeType, page.Text,
		); err != nil {
			return 0, fmt.Errorf("insert page %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	story.ID = id
	story.Language = lang
	story.CreatedAt = parseTime(formatTime(createdAt))
	for i := range story.Pages {
		story.Pages[i].PageNumber = i + 1
	}
	return id, nil
}

// GetStory は物語とページをページ番号順に取得します。
func (s *Store) GetStory(ctx context.Context, id int64) (*domain.Story, error) {
	var row storyRow
	err := s.conn.GetContext(ctx, &row, `
		SELECT s.id, COALESCE(s.character_id, 0) AS character_id, COALESCE(s.template_id, '') AS template_id,
		       s.language, s.prompt, s.created_at,
		       COALESCE(c.name, '') AS name, COALESCE(c.age, '') AS age,
		       COALESCE(c.gender, '') AS gender, COALESCE(c.favorite_thing, '') AS favorite_thing
		FROM stories s
		LEFT JOIN characters c ON c.id = s.character_id
		WHERE s.id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("story %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get story: %w", err)
	}

	var pages []pageRow
	if err := s.conn.SelectContext(ctx, &pages, `
		SELECT page_number, COALESCE(image_data, '') AS image_data,
		       COALESCE(image_mime_type, '') AS image_mime_type, COALESCE(text_content, '') AS text_content
		FROM pages
		WHERE story_id = ?
		ORDER BY page_number`, id); err != nil {
		return nil, fmt.Errorf("select pages: %w", err)
	}

	story := &domain.Story{
		ID:          row.ID,
		CharacterID: row.CharacterID,
		TemplateID:  row.TemplateID,
		Language:    domain.Language(row.Language),
		Prompt:      row.Prompt,
		Character: domain.Character{
			Name:          row.Name,
			Age:           row.Age,
			Gender:        row.Gender,
			FavoriteThing: row.FavoriteThing,
		},
		CreatedAt: parseTime(row.CreatedAt),
		Pages:     make([]domain.Page, 0, len(pages)),
	}
	for _, p := range pages {
		story.Pages = append(story.Pages, p.toDomain())
	}
	return story, nil
}

// ListStories はキャラクターの物語一覧を新しい順に返します。characterID が 0 の場合は全件を返します。
func (s *Store) ListStories(ctx context.Context, characterID int64) ([]domain.StorySummary, error) {
	var rows []storySummaryRow
	if err := s.conn.SelectContext(ctx, &rows, `
		SELECT s.id, COALESCE(s.character_id, 0) AS character_id, COALESCE(s.template_id, '') AS template_id,
		       s.language, s.prompt, s.created_at,
		       (SELECT COUNT(*) FROM pages p WHERE p.story_id = s.id) AS page_count
		FROM stories s
		WHERE ? = 0 OR s.character_id = ?
		ORDER BY s.created_at DESC, s.id DESC`, characterID, characterID); err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}

	out := make([]domain.StorySummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.StorySummary{
			ID:          r.ID,
			CharacterID: r.CharacterID,
			TemplateID:  r.TemplateID,
			Language:    domain.Language(r.Language),
			Prompt:      r.Prompt,
			PageCount:   r.PageCount,
			CreatedAt:   parseTime(r.CreatedAt),
		})
	}
	return out, nil
}

// DeleteStory はページを先に削除してから物語を削除します。
func (s *Store) DeleteStory(ctx context.Context, id int64) (err error) {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			rollback(ctx, tx)
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM pages WHERE story_id = ?`, id); err != nil {
		return fmt.Errorf("delete pages: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM stories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete story: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		err = fmt.Errorf("story %d: %w", id, ErrNotFound)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
