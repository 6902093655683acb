package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

type characterRow struct {
	ID            int64  `db:"id"`
	Name          string `db:"name"`
	Age           string `db:"age"`
	Gender        string `db:"gender"`
	FavoriteThing string `db:"favorite_thing"`
	Image         string `db:"image"`
	CreatedAt     string `db:"created_at"`
}

func (r characterRow) toDomain() *domain.CharacterRecord {
	return &domain.CharacterRecord{
		ID: r.ID,
		Character: domain.Character{
			Name:          r.Name,
			Age:           r.Age,
			Gender:        r.Gender,
			FavoriteThing: r.FavoriteThing,
		},
		Image:     r.Image,
		CreatedAt: parseTime(r.CreatedAt),
	}
}

// CreateCharacter はキャラクターを保存し、採番された ID を返します。
func (s *Store) CreateCharacter(ctx context.Context, c *domain.CharacterRecord) (int64, error) {
	createdAt := s.now()
	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO characters (name, age, gender, favorite_thing, image, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, c.Age, c.Gender, c.FavoriteThing, nullString(c.Image), formatTime(createdAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert character: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("character id: %w", err)
	}

	c.ID = id
	c.CreatedAt = parseTime(formatTime(createdAt))
	return id, nil
}

// GetCharacter は ID からキャラクターを取得します。
func (s *Store) GetCharacter(ctx context.Context, id int64) (*domain.CharacterRecord, error) {
	var row characterRow
	err := s.conn.GetContext(ctx, &row, `
		SELECT id, name, COALESCE(age, '') AS age, COALESCE(gender, '') AS gender,
		       COALESCE(favorite_thing, '') AS favorite_thing, COALESCE(image, '') AS image, created_at
		FROM characters
		WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("character %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get character: %w", err)
	}
	return row.toDomain(), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}
