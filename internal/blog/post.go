package blog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nao1215/miniblog/pkg/middleware"
)

// createPostRequest は投稿作成リクエストのJSON構造。
type createPostRequest struct {
	// Title は投稿タイトル。必須。
	Title string `json:"title" binding:"required"`
	// Content は本文。省略時は空文字になる。
	Content string `json:"content"`
}

// updatePostRequest は投稿更新リクエストのJSON構造。
// タイトルと本文の少なくとも一方を指定する。本文は空文字への更新を
// 許すため、フィールドの有無をポインタで区別する。
type updatePostRequest struct {
	// Title は新しいタイトル。指定する場合は空文字不可。
	Title *string `json:"title" binding:"omitempty,min=1"`
	// Content は新しい本文。空文字でもよい。
	Content *string `json:"content"`
}

// postResponse は投稿のJSONレスポンス構造。
type postResponse struct {
	// ID は投稿の一意識別子。
	ID string `json:"id"`
	// Title は投稿タイトル。
	Title string `json:"title"`
	// Content は本文。
	Content string `json:"content"`
	// Author は所有アカウントの公開情報。
	Author *userResponse `json:"author,omitempty"`
	// CreatedAt は作成日時。
	CreatedAt string `json:"createdAt"`
	// UpdatedAt は更新日時。
	UpdatedAt string `json:"updatedAt"`
}

// toPostResponse はDB行をJSONレスポンスに変換する。
// 所有アカウントはIDとメールアドレスのみに射影する。
func toPostResponse(p Post) postResponse {
	resp := postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt.Format(timeFormat),
		UpdatedAt: p.UpdatedAt.Format(timeFormat),
	}
	if p.Author != nil {
		resp.Author = &userResponse{ID: p.Author.ID, Email: p.Author.Email}
	}
	return resp
}

// handleListPosts は投稿一覧取得を処理するハンドラを返す。認証不要。
// 作成日時の降順で返し、投稿がなければ空配列を返す。
func (s *Server) handleListPosts() gin.HandlerFunc {
	return func(c *gin.Context) {
		posts, err := s.store.ListPosts(c.Request.Context())
		if err != nil {
			respondInternalError(c, err)
			return
		}

		responses := make([]postResponse, 0, len(posts))
		for _, p := range posts {
			responses = append(responses, toPostResponse(p))
		}

		respondSuccess(c, http.StatusOK, gin.H{"posts": responses}, "")
	}
}

// handleGetPost は投稿詳細取得を処理するハンドラを返す。認証不要。
func (s *Server) handleGetPost() gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := s.store.PostByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondInternalError(c, err)
			return
		}
		if post == nil {
			respondError(c, http.StatusNotFound, "Post not found")
			return
		}

		respondSuccess(c, http.StatusOK, gin.H{"post": toPostResponse(*post)}, "")
	}
}

// handleCreatePost は投稿作成を処理するハンドラを返す。
// 所有者は認証済みの実行者に固定される。
func (s *Server) handleCreatePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := middleware.ActingIdentity(c)
		if identity == nil {
			// アクセスガードを通過していればここには到達しない
			respondInternalError(c, errors.New("実行者が解決されていない"))
			return
		}

		var req createPostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, validationMessage(err))
			return
		}

		post := &Post{
			ID:       uuid.New().String(),
			Title:    req.Title,
			Content:  req.Content,
			AuthorID: identity.ID,
		}
		if err := s.store.CreatePost(c.Request.Context(), post); err != nil {
			respondInternalError(c, err)
			return
		}

		// 所有アカウントを結合した形で取り直してレスポンスを返す
		created, err := s.store.PostByID(c.Request.Context(), post.ID)
		if err != nil {
			respondInternalError(c, err)
			return
		}
		if created == nil {
			respondInternalError(c, errors.New("作成した投稿が取得できない"))
			return
		}

		respondSuccess(c, http.StatusCreated, gin.H{"post": toPostResponse(*created)}, "Post created successfully")
	}
}

// handleUpdatePost は投稿更新を処理するハンドラを返す。
// 検証が通るまでストアには一切問い合わせず、所有者以外の更新は403で拒否する。
func (s *Server) handleUpdatePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := middleware.ActingIdentity(c)
		if identity == nil {
			// アクセスガードを通過していればここには到達しない
			respondInternalError(c, errors.New("実行者が解決されていない"))
			return
		}

		var req updatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, validationMessage(err))
			return
		}
		if req.Title == nil && req.Content == nil {
			respondError(c, http.StatusBadRequest, "title or content is required")
			return
		}

		post, err := s.store.PostByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondInternalError(c, err)
			return
		}
		if post == nil {
			respondError(c, http.StatusNotFound, "Post not found")
			return
		}
		if post.AuthorID != identity.ID {
			respondError(c, http.StatusForbidden, "You can only update your own posts")
			return
		}

		if req.Title != nil {
			post.Title = *req.Title
		}
		if req.Content != nil {
			post.Content = *req.Content
		}
		if err := s.store.UpdatePost(c.Request.Context(), post); err != nil {
			respondInternalError(c, err)
			return
		}

		// 更新後の投稿を取り直してレスポンスを返す
		updated, err := s.store.PostByID(c.Request.Context(), post.ID)
		if err != nil {
			respondInternalError(c, err)
			return
		}
		if updated == nil {
			respondInternalError(c, errors.New("更新した投稿が取得できない"))
			return
		}

		respondSuccess(c, http.StatusOK, gin.H{"post": toPostResponse(*updated)}, "Post updated successfully")
	}
}

// handleDeletePost は投稿削除を処理するハンドラを返す。
// 所有者以外の削除は403で拒否する。成功時のレスポンスにdataは含めない。
func (s *Server) handleDeletePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := middleware.ActingIdentity(c)
		if identity == nil {
			// アクセスガードを通過していればここには到達しない
			respondInternalError(c, errors.New("実行者が解決されていない"))
			return
		}

		post, err := s.store.PostByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondInternalError(c, err)
			return
		}
		if post == nil {
			respondError(c, http.StatusNotFound, "Post not found")
			return
		}
		if post.AuthorID != identity.ID {
			respondError(c, http.StatusForbidden, "You can only delete your own posts")
			return
		}

		if err := s.store.DeletePost(c.Request.Context(), post.ID); err != nil {
			respondInternalError(c, err)
			return
		}

		respondSuccess(c, http.StatusOK, nil, "Post deleted successfully")
	}
}
