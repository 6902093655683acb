package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shouni/go-utils/envutil"

	kitconfig "github.com/shouni/go-storybook-kit/pkg/config"
)

// デフォルト値の定義なのだ
const (
	DefaultEnvFile     = ".env"
	DefaultDBPath      = "storybook.db"
	DefaultServerAddr  = ":8080"
	DefaultOutputDir   = "output"
	DefaultHTTPTimeout = 2 * time.Minute
)

// Config はアプリケーション全体の環境設定（APIキーや保存先）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey     string
	GeminiModel      string
	GeminiImageModel string

	DBPath           string
	ServerAddr       string
	OutputDir        string
	BatchConcurrency int
	HTTPTimeout      time.Duration

	Options GenerateOptions
}

// LoadConfig は .env と環境変数から設定を読み込み、構造体を返すのだ！
// .env が存在しない場合は環境変数だけを使います。
func LoadConfig(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, path := range envFiles {
		// 既に設定済みの環境変数は上書きしない
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn(".env の読み込みに失敗しました", "path", path, "error", err)
		}
	}

	return &Config{
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:      envutil.GetEnv("GEMINI_MODEL", kitconfig.DefaultGeminiModel),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", kitconfig.DefaultImageModel),
		DBPath:           envutil.GetEnv("STORYBOOK_DB", DefaultDBPath),
		ServerAddr:       envutil.GetEnv("STORYBOOK_ADDR", DefaultServerAddr),
		OutputDir:        envutil.GetEnv("STORYBOOK_OUTPUT_DIR", DefaultOutputDir),
		BatchConcurrency: envInt("STORYBOOK_BATCH_CONCURRENCY", kitconfig.DefaultBatchConcurrency),
		HTTPTimeout:      envDuration("STORYBOOK_HTTP_TIMEOUT", DefaultHTTPTimeout),
	}
}

// Validate は生成に必須の設定を確認します。
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}
	return nil
}

// KitConfig は CLI フラグの上書きを反映したライブラリ用の設定を返します。
func (c *Config) KitConfig() kitconfig.Config {
	cfg := kitconfig.DefaultConfig()
	cfg.GeminiAPIKey = c.GeminiAPIKey
	cfg.GeminiModel = firstNonEmpty(c.Options.AIModel, c.GeminiModel)
	cfg.ImageModel = firstNonEmpty(c.Options.ImageModel, c.GeminiImageModel)
	cfg.RequestTimeout = c.HTTPTimeout
	if c.Options.HTTPTimeout > 0 {
		cfg.RequestTimeout = c.Options.HTTPTimeout
	}
	cfg.BatchConcurrency = c.BatchConcurrency
	if c.Options.Concurrency > 0 {
		cfg.BatchConcurrency = c.Options.Concurrency
	}
	return cfg.WithDefaults()
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 物語の入力
	TemplateID    string // --template
	Name          string // --name
	Age           string // --age
	Gender        string // --gender
	FavoriteThing string // --favorite
	PageCount     int    // --pages
	Language      string // --lang
	CharacterID   int64  // --character-id

	// 出力
	DBPath    string // --db
	OutputDir string // --output-dir

	// AI挙動設定
	AIModel     string        // --model
	ImageModel  string        // --image-model
	HTTPTimeout time.Duration // --http-timeout

	// バッチ
	BatchFile   string // --file
	Concurrency int    // --concurrency

	Verbose bool // --verbose
}

func envInt(key string, fallback int) int {
	v := envutil.GetEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("数値として解釈できない環境変数を無視します", "key", key, "value", v)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := envutil.GetEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("期間として解釈できない環境変数を無視します", "key", key, "value", v)
		return fallback
	}
	return d
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
