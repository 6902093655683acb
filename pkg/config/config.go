package config

import (
	"time"
)

// デフォルト値の定義
const (
	DefaultGeminiModel       = "gemini-2.0-flash"
	DefaultImageModel        = "gemini-2.0-flash-exp-imagen-01-08"
	DefaultAspectRatio       = "1:1"
	DefaultSafetyFilterLevel = "BLOCK_ONLY_HIGH"
	DefaultPersonGeneration  = "ALLOW_ALL"
	DefaultBatchConcurrency  = 2
)

// Config は Go Storybook Kit の各 Runner を動作させるための基本設定です。
type Config struct {
	// --- AI Model Settings ---
	GeminiModel string // ページ本文用
	ImageModel  string // 挿絵用

	// --- Google AI (Gemini API) Settings ---
	GeminiAPIKey string

	// --- Generation Settings ---
	Temperature       float32 // 0 の場合はモデル既定値
	AspectRatio       string
	SafetyFilterLevel string
	PersonGeneration  string

	// --- Batch Settings ---
	BatchConcurrency int

	// RequestTimeout は 0 の場合トランスポート既定値に従います。
	RequestTimeout time.Duration
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		GeminiModel:       DefaultGeminiModel,
		ImageModel:        DefaultImageModel,
		AspectRatio:       DefaultAspectRatio,
		SafetyFilterLevel: DefaultSafetyFilterLevel,
		PersonGeneration:  DefaultPersonGeneration,
		BatchConcurrency:  DefaultBatchConcurrency,
	}
}

// WithDefaults は未設定の項目をデフォルト値で補った Config を返します。
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.GeminiModel == "" {
		c.GeminiModel = d.GeminiModel
	}
	if c.ImageModel == "" {
		c.ImageModel = d.ImageModel
	}
	if c.AspectRatio == "" {
		c.AspectRatio = d.AspectRatio
	}
	if c.SafetyFilterLevel == "" {
		c.SafetyFilterLevel = d.SafetyFilterLevel
	}
	if c.PersonGeneration == "" {
		c.PersonGeneration = d.PersonGeneration
	}
	if c.BatchConcurrency <= 0 {
		c.BatchConcurrency = d.BatchConcurrency
	}
	return c
}
