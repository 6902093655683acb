// Package store は物語・ページ・キャラクターを SQLite に永続化します。
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// ErrNotFound は対象のレコードが存在しない場合に返されます。
var ErrNotFound = errors.New("record not found")

// timeLayout は created_at の保存形式です。固定長にして文字列順と時刻順を一致させます。
const timeLayout = "2006-01-02 15:04:05.000000"

// Repository は永続化ゲートウェイの契約です。
type Repository interface {
	CreateCharacter(ctx context.Context, c *domain.CharacterRecord) (int64, error)
	GetCharacter(ctx context.Context, id int64) (*domain.CharacterRecord, error)
	CreateStory(ctx context.Context, s *domain.Story) (int64, error)
	GetStory(ctx context.Context, id int64) (*domain.Story, error)
	ListStories(ctx context.Context, characterID int64) ([]domain.StorySummary, error)
	DeleteStory(ctx context.Context, id int64) error
	Close() error
}

// Store は sqlx を使った Repository の実装です。
type Store struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Open は指定パスの SQLite データベースを開き、スキーマを作成します。
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite の書き込みは直列なので接続は1本に絞る
	conn.SetMaxOpenConns(1)

	s := NewWithDB(conn)
	if err := s.migrate(); err != nil {
		if cerr := conn.Close(); cerr != nil {
			slog.Warn("データベースのクローズに失敗しました", "path", path, "error", cerr)
		}
		return nil, fmt.Errorf("migrate: %w", err)
	}

	slog.Debug("データベースを開きました", "path", path)
	return s, nil
}

// NewWithDB は既存の接続から Store を生成します。スキーマの作成は行いません。
func NewWithDB(conn *sqlx.DB) *Store {
	return &Store{
		conn: conn,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Close はデータベース接続を閉じます。
func (s *Store) Close() error {
	return s.conn.Close()
}

// rollback はトランザクションを取り消します。元のエラーを優先し、取り消しの失敗はログに残します。
func rollback(ctx context.Context, tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.WarnContext(ctx, "ロールバックに失敗しました", "error", err)
	}
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS characters (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		age TEXT,
		gender TEXT,
		favorite_thing TEXT,
		image TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		character_id INTEGER REFERENCES characters(id),
		prompt TEXT NOT NULL,
		template_id TEXT,
		language TEXT NOT NULL DEFAULT 'en',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		story_id INTEGER NOT NULL REFERENCES stories(id),
		page_number INTEGER NOT NULL,
		image_data TEXT,
		image_mime_type TEXT,
		text_content TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_stories_character ON stories(character_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_pages_story ON pages(story_id, page_number);
	`
	_, err := s.conn.Exec(schema)
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
