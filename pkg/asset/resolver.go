package asset

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultImageDir は書き出した挿絵を格納するデフォルトのディレクトリ名です。
	DefaultImageDir = "images"
	// DefaultStoryFileName は書き出した物語のデフォルト Markdown ファイル名です。
	DefaultStoryFileName = "story.md"
	// DefaultPageImageBaseName はページ挿絵の共通のベースファイル名です（拡張子なし）。
	DefaultPageImageBaseName = "page"
)

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
// ベースディレクトリの外を指すファイル名は拒否します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	if fileName == "" {
		return "", fmt.Errorf("ファイル名が空です")
	}
	clean := path.Clean(filepath.ToSlash(fileName))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("出力先の外を指すファイル名です: %s", fileName)
	}
	return urlpath.ResolveOutputPath(baseDir, clean)
}

// PageImagePath は、ページ番号と拡張子から images/page_N.ext 形式の相対パスを生成します。
// pageNumber は1以上の整数である必要があります。
func PageImagePath(pageNumber int, ext string) (string, error) {
	if pageNumber < 1 {
		return "", fmt.Errorf("ページ番号は1以上である必要があります: %d", pageNumber)
	}
	return urlpath.GenerateIndexedPath(path.Join(DefaultImageDir, DefaultPageImageBaseName+ext), pageNumber)
}
