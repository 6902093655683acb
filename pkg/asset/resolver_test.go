package asset

import (
	"path/filepath"
	"testing"
)

func TestResolveOutputPath(t *testing.T) {
	for _, name := range []string{"../escape.md", "", "/etc/passwd", "images/../../x"} {
		if _, err := ResolveOutputPath("out", name); err == nil {
			t.Errorf("出力先の外を指すファイル名を拒否できませんでした: %q", name)
		}
	}

	got, err := ResolveOutputPath("out", "images/page_1.jpg")
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if got != filepath.Join("out", "images", "page_1.jpg") {
		t.Errorf("結合結果が不正です: %s", got)
	}
}

func TestPageImagePath(t *testing.T) {
	got, err := PageImagePath(3, ".jpg")
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if got != "images/page_3.jpg" {
		t.Errorf("期待値 images/page_3.jpg, 実際の値 %s", got)
	}
	if _, err := PageImagePath(0, ".jpg"); err == nil {
		t.Error("0 ページ目は拒否されるはずです")
	}
}
