package blog

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nao1215/miniblog/pkg/middleware"
)

// registerRequest はアカウント登録リクエストのJSON構造。
type registerRequest struct {
	// Email はログインに使うメールアドレス。
	Email string `json:"email" binding:"required,email"`
	// Password は平文パスワード。6文字以上。
	Password string `json:"password" binding:"required,min=6"`
}

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	// Email はログインに使うメールアドレス。
	Email string `json:"email" binding:"required,email"`
	// Password は平文パスワード。
	Password string `json:"password" binding:"required"`
}

// userResponse は外部に公開してよいアカウント情報。
// パスワードハッシュはどのレスポンスにも含めない。
type userResponse struct {
	// ID はアカウントの一意識別子。
	ID string `json:"id"`
	// Email はメールアドレス。
	Email string `json:"email"`
	// CreatedAt は作成日時。登録レスポンスでのみ設定する。
	CreatedAt string `json:"createdAt,omitempty"`
}

// handleRegister はアカウント登録を処理するハンドラを返す。
// メールアドレスの重複は409で拒否する。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, validationMessage(err))
			return
		}

		existing, err := s.store.AccountByEmail(c.Request.Context(), req.Email)
		if err != nil {
			respondInternalError(c, err)
			return
		}
		if existing != nil {
			respondError(c, http.StatusConflict, "Email already registered")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondInternalError(c, fmt.Errorf("パスワードのハッシュ化に失敗: %w", err))
			return
		}

		account := &Account{
			ID:           uuid.New().String(),
			Email:        req.Email,
			PasswordHash: string(hash),
		}
		if err := s.store.CreateAccount(c.Request.Context(), account); err != nil {
			respondInternalError(c, err)
			return
		}

		respondSuccess(c, http.StatusCreated, gin.H{
			"user": userResponse{
				ID:        account.ID,
				Email:     account.Email,
				CreatedAt: account.CreatedAt.Format(timeFormat),
			},
		}, "User registered successfully")
	}
}

// handleLogin はログインを処理するハンドラを返す。
// 成功時は有効期間1時間のアクセストークンを発行する。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, validationMessage(err))
			return
		}

		account, err := s.store.AccountByEmail(c.Request.Context(), req.Email)
		if err != nil {
			respondInternalError(c, err)
			return
		}
		// アカウントの存在有無を漏らさないため、未登録と誤パスワードは同一応答にする
		if account == nil {
			respondError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
			respondError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}

		token, err := middleware.GenerateToken(s.cfg.JWTSecret, account.ID)
		if err != nil {
			respondInternalError(c, err)
			return
		}

		respondSuccess(c, http.StatusOK, gin.H{
			"token": token,
			"user":  userResponse{ID: account.ID, Email: account.Email},
		}, "Login successful")
	}
}
