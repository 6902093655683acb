package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/generator"
	"github.com/shouni/go-storybook-kit/pkg/prompts"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
)

// scriptedGenerator はページごとの結果を事前に決めておける PageGenerator なのだ。
type scriptedGenerator struct {
	calls     []string
	prompts   []string
	textErrAt int // このページで本文生成を失敗させる（0 なら失敗しない）
	noImageAt map[int]bool
}

func (g *scriptedGenerator) GenerateText(_ context.Context, prompt string, pageNumber, totalPages int, _ domain.Character, _ domain.Language) (string, error) {
	g.calls = append(g.calls, fmt.Sprintf("text(%d)", pageNumber))
	g.prompts = append(g.prompts, prompt)
	if pageNumber == g.textErrAt {
		return "", &domain.GenerationError{PageNumber: pageNumber, Message: "API Error"}
	}
	return fmt.Sprintf("page %d of %d", pageNumber, totalPages), nil
}

func (g *scriptedGenerator) GenerateImage(_ context.Context, text string, pageNumber int, _ domain.Character, _ domain.Language) *string {
	g.calls = append(g.calls, fmt.Sprintf("image(%d)", pageNumber))
	if g.noImageAt[pageNumber] {
		return nil
	}
	uri := domain.NewImageDataURI(fmt.Sprintf("img-%d", pageNumber))
	return &uri
}

var (
	alice = domain.Character{Name: "Alice", Age: "5", Gender: domain.GenderGirl, FavoriteThing: "unicorns"}

	storyTemplate = domain.Template{
		ID: "test",
		Locales: map[domain.Language]domain.LocalizedTemplate{
			domain.LanguageEnglish: {Title: "Test", Prompt: "a story about {name}"},
			domain.LanguageHebrew:  {Title: "מבחן", Prompt: "סיפור על {name}"},
		},
	}
)

type progressRecorder struct {
	events []domain.ProgressEvent
}

func (r *progressRecorder) record(e domain.ProgressEvent) {
	r.events = append(r.events, e)
}

func TestStoryPipeline_GenerateStory(t *testing.T) {
	ctx := context.Background()

	t.Run("すべて成功した場合はページ数分のページを順番通りに返すこと", func(t *testing.T) {
		for _, n := range domain.PageCountOptions {
			t.Run(fmt.Sprintf("%dページ", n), func(t *testing.T) {
				gen := &scriptedGenerator{}
				pages, err := NewStoryPipeline(gen).GenerateStory(ctx, storyTemplate, alice, n, domain.LanguageEnglish, nil)
				if err != nil {
					t.Fatalf("予期しないエラー: %v", err)
				}
				if len(pages) != n {
					t.Fatalf("期待値 %d ページ, 実際の値 %d ページ", n, len(pages))
				}
				for i, p := range pages {
					if p.PageNumber != i+1 {
						t.Errorf("ページ番号が連番ではありません: index=%d pageNumber=%d", i, p.PageNumber)
					}
					if p.Text == "" {
						t.Errorf("ページ %d の本文が空です", p.PageNumber)
					}
					if !p.HasImage() {
						t.Errorf("ページ %d に画像がありません", p.PageNumber)
					}
				}
			})
		}
	})

	t.Run("本文を全ページ生成してから挿絵を生成すること", func(t *testing.T) {
		gen := &scriptedGenerator{}
		if _, err := NewStoryPipeline(gen).GenerateStory(ctx, storyTemplate, alice, 3, domain.LanguageEnglish, nil); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		want := []string{"text(1)", "text(2)", "text(3)", "image(1)", "image(2)", "image(3)"}
		if !reflect.DeepEqual(gen.calls, want) {
			t.Errorf("呼び出し順が不正です\n期待: %v\n実際: %v", want, gen.calls)
		}
	})

	t.Run("テンプレートをキャラクターで埋めてから本文生成に渡すこと", func(t *testing.T) {
		gen := &scriptedGenerator{}
		if _, err := NewStoryPipeline(gen).GenerateStory(ctx, storyTemplate, alice, 2, domain.LanguageHebrew, nil); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		for _, p := range gen.prompts {
			if p != "סיפור על Alice" {
				t.Errorf("期待値 'סיפור על Alice', 実際の値 '%s'", p)
			}
		}
	})

	t.Run("進捗通知は 2N 回で本文の後に挿絵が続くこと", func(t *testing.T) {
		gen := &scriptedGenerator{}
		rec := &progressRecorder{}
		if _, err := NewStoryPipeline(gen).GenerateStory(ctx, storyTemplate, alice, 3, domain.LanguageEnglish, rec.record); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}

		want := []domain.ProgressEvent{
			{Phase: domain.PhaseText, Page: 1, Total: 3},
			{Phase: domain.PhaseText, Page: 2, Total: 3},
			{Phase: domain.PhaseText, Page: 3, Total: 3},
			{Phase: domain.PhaseImage, Page: 1, Total: 3},
			{Phase: domain.PhaseImage, Page: 2, Total: 3},
			{Phase: domain.PhaseImage, Page: 3, Total: 3},
		}
		if !reflect.DeepEqual(rec.events, want) {
			t.Errorf("進捗イベントが不正です\n期待: %v\n実際: %v", want, rec.events)
		}
	})

	t.Run("進捗通知はリモート呼び出しの直前に行われること", func(t *testing.T) {
		gen := &scriptedGenerator{}
		var callsAtNotify []int
		onProgress := func(domain.ProgressEvent) {
			callsAtNotify = append(callsAtNotify, len(gen.calls))
		}
		if _, err := NewStoryPipeline(gen).GenerateStory(ctx, storyTemplate, alice, 2, domain.LanguageEnglish, onProgress); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		want := []int{0, 1, 2, 3}
		if !reflect.DeepEqual(callsAtNotify, want) {
			t.Errorf("通知時点の呼び出し数が不正です\n期待: %v\n実際: %v", want, callsAtNotify)
		}
	})

	t.Run("本文生成が失敗したら挿絵を1枚も生成せずにエラーを返すこと", func(t *testing.T) {
		gen := &scriptedGenerator{textErrAt: 2}
		rec := &progressRecorder{}
		var states []State
		p := NewStoryPipeline(gen, WithStateObserver(func(s State, _ int) { states = append(states, s) }))

		pages, err := p.GenerateStory(ctx, storyTemplate, alice, 3, domain.LanguageEnglish, rec.record)
		if err == nil {
			t.Fatal("エラーが返されませんでした")
		}
		if pages != nil {
			t.Errorf("部分的な物語が返されました: %v", pages)
		}

		var ge *domain.GenerationError
		if !errors.As(err, &ge) || ge.Error() != "API Error" {
			t.Errorf("GenerationError がそのまま伝播していません: %v", err)
		}

		want := []string{"text(1)", "text(2)"}
		if !reflect.DeepEqual(gen.calls, want) {
			t.Errorf("呼び出しが不正です\n期待: %v\n実際: %v", want, gen.calls)
		}
		if len(rec.events) != 2 {
			t.Errorf("進捗イベント数が不正です: %v", rec.events)
		}
		if states[len(states)-1] != StateFailed {
			t.Errorf("最終状態は failed のはず, 実際の値 %s", states[len(states)-1])
		}
	})

	t.Run("挿絵の失敗はそのページだけ nil にして続行すること", func(t *testing.T) {
		gen := &scriptedGenerator{noImageAt: map[int]bool{2: true}}
		pages, err := NewStoryPipeline(gen).GenerateStory(ctx, storyTemplate, alice, 3, domain.LanguageEnglish, nil)
		if err != nil {
			t.Fatalf("挿絵の失敗でエラーになってはいけません: %v", err)
		}
		if pages[1].ImageData != nil {
			t.Errorf("ページ2の画像は nil のはず: %s", *pages[1].ImageData)
		}
		if !pages[0].HasImage() || !pages[2].HasImage() {
			t.Error("他のページの画像が失われました")
		}
		if pages[1].Text == "" {
			t.Error("画像が無くても本文は保持されるはず")
		}
	})

	t.Run("状態は Idle から Done まで順に遷移すること", func(t *testing.T) {
		gen := &scriptedGenerator{noImageAt: map[int]bool{1: true, 2: true}}
		var states []State
		p := NewStoryPipeline(gen, WithStateObserver(func(s State, _ int) { states = append(states, s) }))
		if _, err := p.GenerateStory(ctx, storyTemplate, alice, 2, domain.LanguageEnglish, nil); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		want := []State{StateIdle, StateGeneratingText, StateGeneratingText, StateGeneratingImages, StateGeneratingImages, StateDone}
		if !reflect.DeepEqual(states, want) {
			t.Errorf("状態遷移が不正です\n期待: %v\n実際: %v", want, states)
		}
	})

	t.Run("ページ数が1未満ならリモート呼び出しをせずにエラーを返すこと", func(t *testing.T) {
		gen := &scriptedGenerator{}
		_, err := NewStoryPipeline(gen).GenerateStory(ctx, storyTemplate, alice, 0, domain.LanguageEnglish, nil)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("ErrInvalidInput を期待しましたが %v でした", err)
		}
		if len(gen.calls) != 0 {
			t.Errorf("リモート呼び出しが発生しました: %v", gen.calls)
		}
	})
}

// recordingText と recordingImage は StoryClient 経由の呼び出し順を共有ログに記録するのだ。
type callLog struct {
	calls []string
}

type recordingText struct {
	log  *callLog
	text string
}

func (r *recordingText) GenerateText(_ context.Context, _ string) (string, error) {
	r.log.calls = append(r.log.calls, fmt.Sprintf("text(%d)", countPrefix(r.log.calls, "text")+1))
	return r.text, nil
}

type recordingImage struct {
	log  *callLog
	data []byte
}

func (r *recordingImage) GenerateImage(_ context.Context, _ imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error) {
	r.log.calls = append(r.log.calls, fmt.Sprintf("image(%d)", countPrefix(r.log.calls, "image")+1))
	return &imagedom.ImageResponse{Data: r.data, MimeType: "image/jpeg"}, nil
}

func countPrefix(calls []string, prefix string) int {
	n := 0
	for _, c := range calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func TestStoryPipeline_EndToEnd(t *testing.T) {
	pb, err := prompts.NewStoryPromptBuilder()
	if err != nil {
		t.Fatalf("プロンプトビルダーの初期化に失敗: %v", err)
	}

	log := &callLog{}
	client := generator.NewStoryClient(
		&recordingText{log: log, text: "Story text"},
		&recordingImage{log: log, data: []byte("imagedata")},
		pb,
		"1:1",
	)

	pages, err := NewStoryPipeline(client).GenerateStory(context.Background(), storyTemplate, alice, 3, domain.LanguageEnglish, nil)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	if len(pages) != 3 {
		t.Fatalf("期待値 3 ページ, 実際の値 %d ページ", len(pages))
	}
	// "imagedata" の base64 表現
	const wantImage = "data:image/jpeg;base64,aW1hZ2VkYXRh"
	for _, p := range pages {
		if p.Text != "Story text" {
			t.Errorf("ページ %d の本文が不正です: %s", p.PageNumber, p.Text)
		}
		if p.ImageData == nil || *p.ImageData != wantImage {
			t.Errorf("ページ %d の画像が不正です: %v", p.PageNumber, p.ImageData)
		}
	}

	want := []string{"text(1)", "text(2)", "text(3)", "image(1)", "image(2)", "image(3)"}
	if !reflect.DeepEqual(log.calls, want) {
		t.Errorf("リモート呼び出し順が不正です\n期待: %v\n実際: %v", want, log.calls)
	}
}
