package generator

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-storybook-kit/pkg/adapters"
	"github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/prompts"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
)

// StoryClient は本文生成と挿絵生成の2つのリモート操作をまとめたクライアントです。
// 各呼び出しは独立しており、内部でリトライはしません。
type StoryClient struct {
	text        adapters.TextAdapter
	image       adapters.ImageAdapter
	prompt      prompts.StoryPrompt
	aspectRatio string
}

// NewStoryClient は依存関係を注入して StoryClient を初期化します。
func NewStoryClient(text adapters.TextAdapter, image adapters.ImageAdapter, pb prompts.StoryPrompt, aspectRatio string) *StoryClient {
	if aspectRatio == "" {
		aspectRatio = config.DefaultAspectRatio
	}
	return &StoryClient{
		text:        text,
		image:       image,
		prompt:      pb,
		aspectRatio: aspectRatio,
	}
}

// GenerateText は1ページ分の本文を生成します。
// 失敗応答は *domain.GenerationError として返し、成功だが本文が無い場合は空文字を返します。
func (c *StoryClient) GenerateText(ctx context.Context, prompt string, pageNumber, totalPages int, character domain.Character, language domain.Language) (string, error) {
	instruction, err := c.prompt.BuildPageText(domain.GenerationRequest{
		Prompt:     prompt,
		PageNumber: pageNumber,
		TotalPages: totalPages,
		Character:  character,
		Language:   language,
	})
	if err != nil {
		return "", fmt.Errorf("ページ %d の本文プロンプト生成に失敗: %w", pageNumber, err)
	}

	logger := slog.With("page", pageNumber, "total", totalPages, "language", language)
	startTime := time.Now()

	text, err := c.text.GenerateText(ctx, instruction)
	if err != nil {
		msg := adapters.RemoteMessage(err)
		if msg == "" {
			msg = domain.DefaultTextErrorMessage
		}
		logger.ErrorContext(ctx, "本文生成に失敗しました", "error", err)
		return "", &domain.GenerationError{PageNumber: pageNumber, Message: msg, Err: err}
	}

	if text == "" {
		logger.WarnContext(ctx, "本文生成の応答にテキストが含まれていませんでした")
	}
	logger.DebugContext(ctx, "本文生成が完了しました", "duration", time.Since(startTime).Round(time.Millisecond))
	return text, nil
}

// GenerateImage は1ページ分の挿絵を生成し、data URI を返します。
// どのような失敗でも nil を返し、エラーはログにのみ記録します。
func (c *StoryClient) GenerateImage(ctx context.Context, narrativeText string, pageNumber int, character domain.Character, language domain.Language) *string {
	logger := slog.With("page", pageNumber, "language", language)

	instruction, err := c.prompt.BuildPageImage(domain.IllustrationRequest{
		SceneText:  narrativeText,
		PageNumber: pageNumber,
		Character:  character,
		Language:   language,
	})
	if err != nil {
		logger.WarnContext(ctx, "挿絵プロンプトの生成に失敗しました", "error", err)
		return nil
	}

	startTime := time.Now()
	resp, err := c.image.GenerateImage(ctx, imagedom.ImageGenerationRequest{
		Prompt:      instruction,
		AspectRatio: c.aspectRatio,
	})
	if err != nil {
		logger.WarnContext(ctx, "挿絵の生成に失敗しました", "error", err)
		return nil
	}
	if resp == nil || len(resp.Data) == 0 {
		logger.WarnContext(ctx, "挿絵の生成結果に画像データがありませんでした")
		return nil
	}

	uri := domain.NewImageDataURI(base64.StdEncoding.EncodeToString(resp.Data))
	logger.DebugContext(ctx, "挿絵の生成が完了しました", "bytes", len(resp.Data), "duration", time.Since(startTime).Round(time.Millisecond))
	return &uri
}
