package publisher

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"github.com/shouni/go-storybook-kit/pkg/asset"
	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir string
	Title     string // 空の場合は物語のプロンプトから決める
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	MarkdownPath string
	ImagePaths   []string
}

const missingImageNote = "_(illustration unavailable)_"

// StoryPublisher は物語を Markdown と画像ファイルとして書き出します。
type StoryPublisher struct {
	writer OutputWriter
}

// NewStoryPublisher は OutputWriter を受け取り StoryPublisher を生成します。
func NewStoryPublisher(writer OutputWriter) *StoryPublisher {
	return &StoryPublisher{writer: writer}
}

// Publish は画像の保存と Markdown の書き出しを行い、生成されたファイル情報を返します。
// 画像の無いページは注記のみを出力します。
func (p *StoryPublisher) Publish(ctx context.Context, story *domain.Story, opts Options) (PublishResult, error) {
	result := PublishResult{}

	markdownPath, err := asset.ResolveOutputPath(opts.OutputDir, asset.DefaultStoryFileName)
	if err != nil {
		return result, err
	}

	imageRefs := make(map[int]string, len(story.Pages))
	for _, page := range story.Pages {
		if !page.HasImage() {
			continue
		}
		mimeType, payload := domain.ParseImageDataURI(*page.ImageData)
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// 壊れた画像でページ全体を落とさない
			slog.WarnContext(ctx, "画像データのデコードに失敗しました", "page", page.PageNumber, "error", err)
			continue
		}

		rel, err := asset.PageImagePath(page.PageNumber, extensionFor(mimeType))
		if err != nil {
			return result, err
		}
		fullPath, err := asset.ResolveOutputPath(opts.OutputDir, rel)
		if err != nil {
			return result, err
		}
		if err := p.writer.Write(ctx, fullPath, data); err != nil {
			return result, fmt.Errorf("画像の書き込みに失敗しました %s: %w", fullPath, err)
		}
		imageRefs[page.PageNumber] = rel
		result.ImagePaths = append(result.ImagePaths, fullPath)
	}

	content := BuildMarkdown(story, opts.Title, imageRefs)
	if err := p.writer.Write(ctx, markdownPath, []byte(content)); err != nil {
		return result, fmt.Errorf("markdownファイルの書き込みに失敗しました: %w", err)
	}
	result.MarkdownPath = markdownPath

	slog.InfoContext(ctx, "物語を書き出しました", "path", markdownPath, "images", len(result.ImagePaths))
	return result, nil
}

// BuildMarkdown は保存処理を行わず、物語から Markdown 文字列のみを生成して返却します。
// imageRefs はページ番号から画像の参照先へのマップで、nil の場合はページの data URI をそのまま使います。
func BuildMarkdown(story *domain.Story, title string, imageRefs map[int]string) string {
	if title == "" {
		title = story.Prompt
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	if story.Character.Name != "" {
		sb.WriteString(fmt.Sprintf("_Starring %s_\n\n", story.Character.Name))
	}

	for _, page := range story.Pages {
		sb.WriteString(fmt.Sprintf("## Page %d\n\n", page.PageNumber))

		ref := ""
		if imageRefs != nil {
			ref = imageRefs[page.PageNumber]
		} else if page.HasImage() {
			ref = *page.ImageData
		}
		if ref != "" {
			sb.WriteString(fmt.Sprintf("![Page %d](%s)\n\n", page.PageNumber, ref))
		} else {
			sb.WriteString(missingImageNote + "\n\n")
		}

		sb.WriteString(strings.TrimSpace(page.Text))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "", domain.DefaultImageMIMEType:
		return ".jpg"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".img"
}
