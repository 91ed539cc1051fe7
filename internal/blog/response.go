package blog

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// timeFormat はレスポンスの日時表記。
const timeFormat = "2006-01-02T15:04:05Z"

// envelope は全エンドポイント共通のレスポンス形式。
type envelope struct {
	// Status は "success" または "error"。
	Status string `json:"status"`
	// Data は成功時のペイロード。
	Data any `json:"data,omitempty"`
	// Message は人間向けの補足メッセージ。
	Message string `json:"message,omitempty"`
}

// respondSuccess は成功エンベロープを書き込む。dataとmessageは省略してよい。
func respondSuccess(c *gin.Context, code int, data any, message string) {
	c.JSON(code, envelope{Status: "success", Data: data, Message: message})
}

// respondError はエラーエンベロープを書き込む。
func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, envelope{Status: "error", Message: message})
}

// respondInternalError は原因をログにのみ残し、呼び出し元には定型メッセージを返す。
// ストアやハッシュ化プリミティブの内部エラーを外部に漏らさないための出口。
func respondInternalError(c *gin.Context, err error) {
	log.Printf("内部エラー: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	respondError(c, http.StatusInternalServerError, "Internal server error")
}

// validationMessage はリクエストボディのバインドエラーを、最初に違反した
// ルールの説明文へ変換する。
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldRuleMessage(verrs[0])
	}
	return "Invalid request body"
}

// fieldRuleMessage は1件のフィールド違反を説明文にする。
func fieldRuleMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
