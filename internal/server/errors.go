package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/store"
)

// statusFor はエラーの種類を HTTP ステータスに変換します。
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case domain.IsGenerationError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError はエラーを {"error": msg} 形式で返します。
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": errorMessage(err)})
}

// errorMessage はクライアントに返すメッセージを決めます。
// 生成エラーはリモートのメッセージをそのまま返し、内部エラーの詳細は隠します。
func errorMessage(err error) string {
	var genErr *domain.GenerationError
	if errors.As(err, &genErr) {
		return genErr.Error()
	}
	if statusFor(err) == http.StatusInternalServerError {
		return http.StatusText(http.StatusInternalServerError)
	}
	return err.Error()
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
