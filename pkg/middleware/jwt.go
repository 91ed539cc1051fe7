package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims はアクセストークンのクレーム（ペイロード）を表す。
// 埋め込むのはアカウントIDのみで、メールアドレス等はリクエストごとに
// ストアから解決し直す。
type Claims struct {
	jwt.RegisteredClaims
	// AccountID は認証済みアカウントの一意識別子。
	AccountID string `json:"account_id"`
}

// Identity は検証済みトークンから解決したリクエスト実行者。
// リクエスト処理の間だけ存在し、永続化しない。
type Identity struct {
	// ID はアカウントの一意識別子。
	ID string
	// Email はアカウントのメールアドレス。
	Email string
}

// AccountResolver はトークンに埋め込まれたアカウントIDを実在のアカウントへ解決する。
// アカウントが存在しない場合は (nil, nil) を返す。
type AccountResolver func(ctx context.Context, accountID string) (*Identity, error)

// tokenTTL はアクセストークンの有効期間。
const tokenTTL = time.Hour

// contextKeyIdentity はGinコンテキストに実行者を保持するキー。
const contextKeyIdentity = "acting_identity"

// GenerateToken はアカウントIDから署名付きアクセストークンを生成する。
// ログイン成功時に認証ハンドラが呼び出す。有効期間は1時間。
func GenerateToken(secret, accountID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "miniblog",
		},
		AccountID: accountID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("アクセストークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// Auth はアクセストークンを検証するGinミドルウェアを返す。
// 署名と有効期限を検証し、埋め込まれたアカウントIDをresolveで実在の
// アカウントへ解決できた場合のみ、実行者をコンテキストに設定して続行する。
func Auth(secret string, resolve AccountResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if authHeader == "" || !found || tokenString == "" {
			abortWithError(c, http.StatusUnauthorized, "Access token required")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			abortWithError(c, http.StatusForbidden, "Invalid or expired token")
			return
		}

		identity, err := resolve(c.Request.Context(), claims.AccountID)
		if err != nil {
			// ストア障害をトークン不正と区別して呼び出し元へ漏らさない
			abortWithError(c, http.StatusForbidden, "Invalid or expired token")
			return
		}
		if identity == nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(contextKeyIdentity, identity)
		c.Next()
	}
}

// ActingIdentity はGinコンテキストから検証済みの実行者を取得する。
// Authミドルウェアが適用されていないルートではnilを返す。
func ActingIdentity(c *gin.Context) *Identity {
	v, _ := c.Get(contextKeyIdentity)
	if identity, ok := v.(*Identity); ok {
		return identity
	}
	return nil
}

// abortWithError はエンベロープ形式のエラーレスポンスでリクエストを中断する。
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"status": "error", "message": message})
}
