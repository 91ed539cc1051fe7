package blog

import "os"

// Config はサーバー起動時に一度だけ構築される設定値。
// リクエスト処理中はこの構造体経由でのみ参照し、環境変数を直接読まない。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string
	// DSN はSQLiteデータベースの接続文字列。
	DSN string
	// JWTSecret はアクセストークンの署名秘密鍵。
	JWTSecret string
	// AllowedOrigins はCORSで許可するオリジン。
	AllowedOrigins []string
}

// LoadConfig は環境変数から設定を読み込む。未設定の項目は開発用の既定値を使う。
func LoadConfig() Config {
	return Config{
		Port:      getEnvOr("PORT", "8080"),
		DSN:       getEnvOr("BLOG_DB_DSN", "file:blog.db?_journal_mode=WAL&_busy_timeout=5000"),
		JWTSecret: getEnvOr("JWT_SECRET", "dev-secret-key"),
		AllowedOrigins: []string{
			getEnvOr("FRONTEND_URL", "http://localhost:3000"),
		},
	}
}

// getEnvOr は環境変数の値を返し、未設定の場合はfallbackを返す。
func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
