package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testJWTSecret はテスト用のJWT署名秘密鍵。
const testJWTSecret = "test-secret-key"

// newTestServer はインメモリSQLiteを使うテスト用のブログサーバーを生成する。
func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("インメモリストアの生成に失敗: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	router := gin.New()
	s := &Server{
		router: router,
		cfg:    Config{Port: "0", JWTSecret: testJWTSecret},
		store:  store,
	}
	s.setupRoutes()

	return s
}

// doJSON はJSONボディ付きのリクエストを実行してレコーダを返す。
// tokenが空でなければAuthorizationヘッダーにBearerトークンとして設定する。
func doJSON(t *testing.T, s *Server, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// parseEnvelope はレスポンスボディをエンベロープとしてパースする。
func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var result map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("レスポンスのパースに失敗: %v", err)
	}
	return result
}

// envelopeData はエンベロープのdataから指定キーのオブジェクトを取り出す。
func envelopeData(t *testing.T, env map[string]any, key string) map[string]any {
	t.Helper()

	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("dataフィールドがオブジェクトでない: %v", env)
	}
	obj, ok := data[key].(map[string]any)
	if !ok {
		t.Fatalf("data.%s がオブジェクトでない: %v", key, data)
	}
	return obj
}

// registerAccount はテスト用アカウントを登録してIDを返す。
func registerAccount(t *testing.T, s *Server, email, password string) string {
	t.Helper()

	w := doJSON(t, s, http.MethodPost, "/register",
		fmt.Sprintf(`{"email":%q,"password":%q}`, email, password), "")
	if w.Code != http.StatusCreated {
		t.Fatalf("テスト用アカウントの登録に失敗: status=%d body=%s", w.Code, w.Body.String())
	}
	user := envelopeData(t, parseEnvelope(t, w), "user")
	id, ok := user["id"].(string)
	if !ok || id == "" {
		t.Fatalf("登録レスポンスにidがない: %v", user)
	}
	return id
}

// loginAccount はログインしてアクセストークンを返す。
func loginAccount(t *testing.T, s *Server, email, password string) string {
	t.Helper()

	w := doJSON(t, s, http.MethodPost, "/login",
		fmt.Sprintf(`{"email":%q,"password":%q}`, email, password), "")
	if w.Code != http.StatusOK {
		t.Fatalf("テスト用ログインに失敗: status=%d body=%s", w.Code, w.Body.String())
	}
	env := parseEnvelope(t, w)
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("ログインレスポンスにdataがない: %v", env)
	}
	token, ok := data["token"].(string)
	if !ok || token == "" {
		t.Fatalf("ログインレスポンスにtokenがない: %v", data)
	}
	return token
}

// createTestPost は投稿を作成してIDを返す。
func createTestPost(t *testing.T, s *Server, token, title, content string) string {
	t.Helper()

	w := doJSON(t, s, http.MethodPost, "/posts",
		fmt.Sprintf(`{"title":%q,"content":%q}`, title, content), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("テスト用投稿の作成に失敗: status=%d body=%s", w.Code, w.Body.String())
	}
	post := envelopeData(t, parseEnvelope(t, w), "post")
	id, ok := post["id"].(string)
	if !ok || id == "" {
		t.Fatalf("作成レスポンスにidがない: %v", post)
	}
	return id
}

// TestHealth はヘルスチェックエンドポイントのテスト。
func TestHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusOK)
	}
}

// TestAccessGuard はアクセスガードをルーティング越しに検証するテスト。
func TestAccessGuard(t *testing.T) {
	t.Parallel()

	t.Run("トークンなしの書き込みは401になる", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		w := doJSON(t, s, http.MethodPost, "/posts", `{"title":"t"}`, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusUnauthorized)
		}
		env := parseEnvelope(t, w)
		if env["message"] != "Access token required" {
			t.Errorf("message: got %v, want %q", env["message"], "Access token required")
		}
	})

	t.Run("不正なトークンは403になる", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		w := doJSON(t, s, http.MethodPost, "/posts", `{"title":"t"}`, "not-a-jwt")
		if w.Code != http.StatusForbidden {
			t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusForbidden)
		}
		env := parseEnvelope(t, w)
		if env["message"] != "Invalid or expired token" {
			t.Errorf("message: got %v, want %q", env["message"], "Invalid or expired token")
		}
	})

	t.Run("アカウントが消えたトークンは401になる", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		registerAccount(t, s, "ghost@example.com", "secret1")
		token := loginAccount(t, s, "ghost@example.com", "secret1")

		// トークン発行後にアカウント行を直接削除して、未知のアカウントIDを再現する
		if _, err := s.store.db.NewDelete().Model((*Account)(nil)).
			Where("email = ?", "ghost@example.com").Exec(context.Background()); err != nil {
			t.Fatalf("アカウント行の削除に失敗: %v", err)
		}

		w := doJSON(t, s, http.MethodPost, "/posts", `{"title":"t"}`, token)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusUnauthorized)
		}
		env := parseEnvelope(t, w)
		if env["message"] != "Invalid token" {
			t.Errorf("message: got %v, want %q", env["message"], "Invalid token")
		}
	})

	t.Run("閲覧系エンドポイントはトークンなしで通る", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		w := doJSON(t, s, http.MethodGet, "/posts", "", "")
		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusOK)
		}
	})
}
