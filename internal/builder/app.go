package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/pkg/adapters"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
	"github.com/shouni/go-storybook-kit/pkg/store"
	"github.com/shouni/go-storybook-kit/pkg/workflow"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各コマンドに渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  *config.Config         // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、保存先など）。
	Options config.GenerateOptions // Optionsは、コマンドラインから渡された実行時の設定です。
	Store   store.Repository       // Storeは、キャラクターと物語の永続化先です（キャッシュ付き）。
	Catalog *prompts.Catalog       // Catalogは、組み込みの物語テンプレート一覧です。

	workflow *workflow.Manager
	closer   func() error
}

// AppArgs は NewAppContext のオプションです。テストではアダプターを差し替えます。
type AppArgs struct {
	TextAdapter  adapters.TextAdapter
	ImageAdapter adapters.ImageAdapter
	// Repository が指定された場合は DB を開きません。
	Repository store.Repository
}

// NewAppContext は設定から DB とワークフローを初期化した AppContext を生成する
func NewAppContext(ctx context.Context, cfg *config.Config, args AppArgs) (*AppContext, error) {
	repo := args.Repository
	closer := func() error { return nil }
	if repo == nil {
		dbPath := cfg.DBPath
		if cfg.Options.DBPath != "" {
			dbPath = cfg.Options.DBPath
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("データベースの初期化に失敗しました: %w", err)
		}
		repo = store.NewCachedStore(s, 0)
		closer = s.Close
	}

	catalog, err := prompts.DefaultCatalog()
	if err != nil {
		_ = closer()
		return nil, err
	}

	manager, err := workflow.New(ctx, workflow.ManagerArgs{
		Config:       cfg.KitConfig(),
		TextAdapter:  args.TextAdapter,
		ImageAdapter: args.ImageAdapter,
		Catalog:      catalog,
		Store:        repo,
	})
	if err != nil {
		_ = closer()
		return nil, fmt.Errorf("ワークフローの初期化に失敗しました: %w", err)
	}

	return &AppContext{
		Config:   cfg,
		Options:  cfg.Options,
		Store:    repo,
		Catalog:  catalog,
		workflow: manager,
		closer:   closer,
	}, nil
}

// Workflow は Runner の構築に使う Manager を返します。
func (a *AppContext) Workflow() workflow.Workflow {
	return a.workflow
}

// Close は保持しているリソースを解放します。
func (a *AppContext) Close() error {
	if a.closer == nil {
		return nil
	}
	if err := a.closer(); err != nil {
		slog.Warn("データベースのクローズに失敗しました", "error", err)
		return err
	}
	return nil
}
