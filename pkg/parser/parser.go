// Package parser は一括生成用の要求ファイルを読み込みます。
package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// Parser は解析するためのインターフェースを定義します。
type Parser interface {
	ParseFromPath(ctx context.Context, fullPath string) ([]domain.StoryRequest, error)
}

// BatchRequestParser は JSON 配列形式の生成要求を解析する構造体です。
type BatchRequestParser struct{}

// NewBatchRequestParser は新しい BatchRequestParser インスタンスを生成します。
func NewBatchRequestParser() *BatchRequestParser {
	return &BatchRequestParser{}
}

// ParseFromPath はローカルファイルパスからコンテンツを読み込み、生成要求の一覧を返します。
func (p *BatchRequestParser) ParseFromPath(ctx context.Context, path string) ([]domain.StoryRequest, error) {
	if path == "" {
		return nil, fmt.Errorf("バッチファイルのパスが空です")
	}
	slog.InfoContext(ctx, "バッチファイルを読み込んでいます", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("バッチファイルのオープンに失敗しました (%s): %w", path, err)
	}
	defer f.Close()

	return p.Parse(f)
}

// Parse は JSON 配列を読み込み、各要求に既定値を補って返します。
// 空の配列や、検証に失敗する要求を含む場合はエラーです。
func (p *BatchRequestParser) Parse(r io.Reader) ([]domain.StoryRequest, error) {
	var reqs []domain.StoryRequest
	if err := json.NewDecoder(r).Decode(&reqs); err != nil {
		return nil, fmt.Errorf("バッチJSONのパースに失敗しました: %w", err)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: 生成要求が1件もありません", domain.ErrInvalidInput)
	}

	for i := range reqs {
		reqs[i].Normalize()
		if err := reqs[i].Validate(); err != nil {
			return nil, fmt.Errorf("%d 件目の要求が不正です: %w", i+1, err)
		}
	}
	return reqs, nil
}
