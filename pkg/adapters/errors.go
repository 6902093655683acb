package adapters

import (
	"errors"
	"fmt"
)

// ErrNoImage は画像生成が成功応答を返したが画像データが含まれていない場合のエラーです。
var ErrNoImage = errors.New("生成結果に画像データが含まれていません")

// APIError はリモート API が返した失敗応答です。
type APIError struct {
	StatusCode int
	Status     string
	Message    string // リモートが返した人間向けメッセージ（無い場合は空）
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d %s", e.StatusCode, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// RemoteMessage はエラー連鎖からリモートのメッセージを取り出します。見つからなければ空文字です。
func RemoteMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
