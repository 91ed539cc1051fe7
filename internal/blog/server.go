package blog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/miniblog/pkg/middleware"
)

// Server はブログバックエンドのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// cfg は起動時に確定した設定値。
	cfg Config
	// store はアカウントと投稿のデータアクセス層。
	store *Store
}

// NewServer は設定からブログサーバーを生成する。
// SQLiteデータベースを開いてマイグレーションを適用し、ルーティングを設定する。
func NewServer(cfg Config) (*Server, error) {
	store, err := NewStore(cfg.DSN)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	s := &Server{
		router: router,
		cfg:    cfg,
		store:  store,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.cfg.Port))
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// 認証不要のエンドポイント
	s.router.POST("/register", s.handleRegister())
	s.router.POST("/login", s.handleLogin())
	s.router.GET("/posts", s.handleListPosts())
	s.router.GET("/posts/:id", s.handleGetPost())

	// 投稿の作成・更新・削除はアクセストークン必須
	authed := s.router.Group("/")
	authed.Use(middleware.Auth(s.cfg.JWTSecret, s.resolveAccount))
	{
		authed.POST("/posts", s.handleCreatePost())
		authed.PUT("/posts/:id", s.handleUpdatePost())
		authed.DELETE("/posts/:id", s.handleDeletePost())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "blog"})
	})
}

// resolveAccount はトークンに埋め込まれたアカウントIDを実在のアカウントへ解決する。
// アクセスガード（middleware.Auth）から呼び出される。
func (s *Server) resolveAccount(ctx context.Context, accountID string) (*middleware.Identity, error) {
	account, err := s.store.AccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}
	return &middleware.Identity{ID: account.ID, Email: account.Email}, nil
}
