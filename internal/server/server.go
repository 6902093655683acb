// Package server は物語生成と保存を HTTP API として公開します。
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shouni/go-storybook-kit/pkg/prompts"
	"github.com/shouni/go-storybook-kit/pkg/store"
	"github.com/shouni/go-storybook-kit/pkg/workflow"
)

const shutdownTimeout = 10 * time.Second

// Handler は API の各エンドポイントを処理します。
type Handler struct {
	repo    store.Repository
	runner  workflow.StoryRunner
	catalog *prompts.Catalog
}

// NewHandler は依存関係を注入して Handler を生成します。
func NewHandler(repo store.Repository, runner workflow.StoryRunner, catalog *prompts.Catalog) *Handler {
	return &Handler{
		repo:    repo,
		runner:  runner,
		catalog: catalog,
	}
}

// RegisterRoutes は /api 配下のルートを登録します。
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/characters", h.createCharacter)
	rg.GET("/characters/:id", h.getCharacter)

	rg.POST("/stories", h.createStory)
	rg.POST("/stories/generate", h.generateStory)
	rg.GET("/stories", h.listStories)
	rg.GET("/stories/:id", h.getStory)
	rg.DELETE("/stories/:id", h.deleteStory)

	rg.GET("/templates", h.listTemplates)
}

// NewRouter はミドルウェアとルートを設定した gin.Engine を返します。
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	h.RegisterRoutes(router.Group("/api"))

	return router
}

// Run は ctx がキャンセルされるまで addr で待ち受け、その後グレースフルに停止します。
func Run(ctx context.Context, addr string, router http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTPサーバーを起動します", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTPサーバーの起動に失敗しました: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("HTTPサーバーを停止します")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTPサーバーの停止に失敗しました: %w", err)
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	}
}
