package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shouni/go-storybook-kit/pkg/config"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"google.golang.org/genai"
)

// GeminiAdapter は Gemini API を使って本文と挿絵を生成するアダプターです。
// TextAdapter と ImageAdapter の両方を実装します。
type GeminiAdapter struct {
	models            *genai.Models
	textModel         string
	imageModel        string
	temperature       float32
	safetyFilterLevel genai.SafetyFilterLevel
	personGeneration  genai.PersonGeneration
}

// NewGeminiAdapter は設定から Gemini クライアントを初期化します。
// APIキーは呼び出し側が環境変数などから渡す必要があります。
func NewGeminiAdapter(ctx context.Context, cfg config.Config) (*GeminiAdapter, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GeminiAPIKey は必須です")
	}
	cfg = cfg.WithDefaults()

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.RequestTimeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}

	return &GeminiAdapter{
		models:            client.Models,
		textModel:         cfg.GeminiModel,
		imageModel:        cfg.ImageModel,
		temperature:       cfg.Temperature,
		safetyFilterLevel: genai.SafetyFilterLevel(cfg.SafetyFilterLevel),
		personGeneration:  genai.PersonGeneration(cfg.PersonGeneration),
	}, nil
}

// GenerateText は本文生成モデルを1回呼び出し、最初の候補の最初のテキストを返します。
func (a *GeminiAdapter) GenerateText(ctx context.Context, prompt string) (string, error) {
	var genCfg *genai.GenerateContentConfig
	if a.temperature > 0 {
		genCfg = &genai.GenerateContentConfig{Temperature: genai.Ptr(a.temperature)}
	}

	slog.DebugContext(ctx, "Gemini API を呼び出します", "model", a.textModel, "prompt_len", len(prompt))
	resp, err := a.models.GenerateContent(ctx, a.textModel, genai.Text(prompt), genCfg)
	if err != nil {
		return "", toAPIError(err)
	}
	return firstText(resp), nil
}

// GenerateImage は画像生成モデルを1回呼び出し、1枚目の画像を返します。
// Gemini API 側で未対応の NegativePrompt と Seed は送信しません。
func (a *GeminiAdapter) GenerateImage(ctx context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error) {
	imgCfg := &genai.GenerateImagesConfig{
		NumberOfImages:    1,
		AspectRatio:       req.AspectRatio,
		SafetyFilterLevel: a.safetyFilterLevel,
		PersonGeneration:  a.personGeneration,
	}

	slog.DebugContext(ctx, "画像生成 API を呼び出します", "model", a.imageModel, "aspect_ratio", req.AspectRatio)
	resp, err := a.models.GenerateImages(ctx, a.imageModel, req.Prompt, imgCfg)
	if err != nil {
		return nil, toAPIError(err)
	}
	return firstImage(resp)
}

// firstText は 0〜1 件の候補から 0〜1 個のテキストを取り出します。
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 || cand.Content.Parts[0] == nil {
		return ""
	}
	return cand.Content.Parts[0].Text
}

func firstImage(resp *genai.GenerateImagesResponse) (*imagedom.ImageResponse, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0] == nil {
		return nil, ErrNoImage
	}
	generated := resp.GeneratedImages[0]
	if generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
		if generated.RAIFilteredReason != "" {
			return nil, fmt.Errorf("%w (filtered: %s)", ErrNoImage, generated.RAIFilteredReason)
		}
		return nil, ErrNoImage
	}
	return &imagedom.ImageResponse{
		Data:     generated.Image.ImageBytes,
		MimeType: generated.Image.MIMEType,
	}, nil
}

// toAPIError は genai のエラーを APIError に変換します。それ以外のエラーはそのまま返します。
func toAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{StatusCode: apiErr.Code, Status: apiErr.Status, Message: apiErr.Message, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &APIError{StatusCode: apiErrPtr.Code, Status: apiErrPtr.Status, Message: apiErrPtr.Message, Err: err}
	}
	return err
}
