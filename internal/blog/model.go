package blog

import (
	"time"

	"github.com/uptrace/bun"
)

// Account はブログのアカウントを表すbunモデル。
// 登録で作成された後、このコアからは変更も削除もされない。
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	// ID はアカウントの一意識別子（UUID）。
	ID string `bun:"id,pk"`
	// Email はログインに使うメールアドレス。一意性はストア層の制約で強制する。
	Email string `bun:"email,notnull,unique"`
	// PasswordHash はbcryptでハッシュ化したパスワード。レスポンスには決して含めない。
	PasswordHash string `bun:"password_hash,notnull" json:"-"`
	// CreatedAt は作成日時（UTC）。
	CreatedAt time.Time `bun:"created_at,notnull"`
	// UpdatedAt は更新日時（UTC）。
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Post はブログ投稿を表すbunモデル。
// 投稿は作成時に決まった1つのアカウントに属し、所有者が変わることはない。
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	// ID は投稿の一意識別子（UUID）。
	ID string `bun:"id,pk"`
	// Title は投稿タイトル。空文字は許可しない。
	Title string `bun:"title,notnull"`
	// Content は本文。空文字でもよい。
	Content string `bun:"content,notnull"`
	// AuthorID は投稿を所有するアカウントのID。
	AuthorID string `bun:"author_id,notnull"`
	// Author は所有アカウント。一覧・詳細取得時に結合して取得する。
	Author *Account `bun:"rel:belongs-to,join:author_id=id"`
	// CreatedAt は作成日時（UTC）。
	CreatedAt time.Time `bun:"created_at,notnull"`
	// UpdatedAt は更新日時（UTC）。
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
