// Package blog はブログバックエンドの本体を実装する。
//
// アカウント登録・ログインによる認証、アクセストークンの発行、
// 所有者チェック付きの投稿CRUDを提供する。永続化はbun経由のSQLiteに
// 委譲し、全エンドポイントは {status, data, message} 形式の
// エンベロープでレスポンスを返す。
package blog
