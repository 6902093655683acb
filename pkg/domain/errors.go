package domain

import "errors"

// ErrInvalidInput は呼び出し側の入力が不正な場合に返されます。
var ErrInvalidInput = errors.New("invalid input")

// DefaultTextErrorMessage はリモートからメッセージが得られなかった場合の既定文言です。
const DefaultTextErrorMessage = "Failed to generate story text"

// GenerationError はページ本文の生成失敗を表します。
// 本文フェーズでのみ発生し、ストーリー生成全体を中断させます。
type GenerationError struct {
	PageNumber int
	Message    string // リモートが返したメッセージ、または DefaultTextErrorMessage
	Err        error
}

// Error はリモートのメッセージをそのまま返します。
func (e *GenerationError) Error() string {
	if e.Message == "" {
		return DefaultTextErrorMessage
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsGenerationError は err の連鎖に GenerationError が含まれるかを判定します。
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
