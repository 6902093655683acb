package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

const eventStreamMIME = "text/event-stream"

// generateStory はオーケストレーターを実行し、保存済みの物語を返します。
// Accept: text/event-stream の場合は進捗を SSE で逐次送信します。
func (h *Handler) generateStory(c *gin.Context) {
	var req domain.StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	if req.CharacterID > 0 {
		rec, err := h.repo.GetCharacter(ctx, req.CharacterID)
		if err != nil {
			writeError(c, err)
			return
		}
		if req.Character.Name == "" {
			req.Character = rec.Character
		}
	}

	if !strings.Contains(c.GetHeader("Accept"), eventStreamMIME) {
		story, err := h.runner.Run(ctx, req, nil)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, story)
		return
	}

	c.Header("Content-Type", eventStreamMIME)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	// 進捗コールバックはハンドラーと同じゴルーチンで同期的に呼ばれる
	story, err := h.runner.Run(ctx, req, func(e domain.ProgressEvent) {
		c.SSEvent("progress", e)
		c.Writer.Flush()
	})
	if err != nil {
		c.SSEvent("error", gin.H{"error": errorMessage(err), "status": statusFor(err)})
		c.Writer.Flush()
		return
	}
	c.SSEvent("story", story)
	c.Writer.Flush()
}
