// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// アクセストークンの検証（アクセスガード）、パニックリカバリ、CORS設定を含む。
// アクセスガードはトークンの署名・有効期限の検証に加えて、埋め込まれた
// アカウントIDが実在することをストアへの問い合わせで確認する。
package middleware
