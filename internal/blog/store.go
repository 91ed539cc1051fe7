package blog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"github.com/nao1215/miniblog/pkg/migration"
)

//go:embed migrations
var embeddedMigrations embed.FS

// Store はアカウントと投稿の永続化を担うデータアクセス層。
// 「該当行なし」はエラーではなく (nil, nil) で表現し、
// HTTP層でのステータス判定（404 / 409 / 401）に使う。
type Store struct {
	db *bun.DB
}

// NewStore はSQLiteデータベースを開き、マイグレーションを適用してStoreを生成する。
func NewStore(dsn string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	// SQLiteは書き込みが単一のため、接続を1本に制限してロック競合を避ける。
	// インメモリDBを使うテストでも接続ごとにDBが分かれる問題を防ぐ。
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("外部キー制約の有効化に失敗: %w", err)
	}
	if err := migration.Apply(sqlDB, embeddedMigrations, "migrations"); err != nil {
		return nil, fmt.Errorf("マイグレーションの適用に失敗: %w", err)
	}

	return &Store{db: bun.NewDB(sqlDB, sqlitedialect.New())}, nil
}

// Close はデータベース接続を閉じる。
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateAccount は新しいアカウントを挿入する。作成・更新日時はここで設定する。
// メールアドレスが既に存在する場合はUNIQUE制約違反のエラーを返す。
func (s *Store) CreateAccount(ctx context.Context, account *Account) error {
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	if _, err := s.db.NewInsert().Model(account).Exec(ctx); err != nil {
		return fmt.Errorf("アカウントの挿入に失敗: %w", err)
	}
	return nil
}

// AccountByEmail はメールアドレスでアカウントを検索する。該当なしの場合は (nil, nil)。
// 大文字小文字は保存されたとおりに区別する。
func (s *Store) AccountByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	err := s.db.NewSelect().Model(&account).Where("email = ?", email).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("アカウントの検索に失敗: %w", err)
	}
	return &account, nil
}

// AccountByID はIDでアカウントを検索する。該当なしの場合は (nil, nil)。
func (s *Store) AccountByID(ctx context.Context, id string) (*Account, error) {
	var account Account
	err := s.db.NewSelect().Model(&account).Where("id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("アカウントの検索に失敗: %w", err)
	}
	return &account, nil
}

// CreatePost は新しい投稿を挿入する。作成・更新日時はここで設定する。
func (s *Store) CreatePost(ctx context.Context, post *Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	if _, err := s.db.NewInsert().Model(post).Exec(ctx); err != nil {
		return fmt.Errorf("投稿の挿入に失敗: %w", err)
	}
	return nil
}

// PostByID は投稿を所有アカウントと結合して取得する。該当なしの場合は (nil, nil)。
func (s *Store) PostByID(ctx context.Context, id string) (*Post, error) {
	var post Post
	err := s.db.NewSelect().Model(&post).Relation("Author").Where("p.id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗: %w", err)
	}
	return &post, nil
}

// ListPosts は全投稿を所有アカウントと結合し、作成日時の降順で返す。
// 投稿が1件もない場合は空スライスを返す。
func (s *Store) ListPosts(ctx context.Context) ([]Post, error) {
	posts := make([]Post, 0)
	err := s.db.NewSelect().Model(&posts).Relation("Author").OrderExpr("p.created_at DESC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("投稿一覧の取得に失敗: %w", err)
	}
	return posts, nil
}

// UpdatePost は投稿のタイトル・本文と更新日時を永続化する。
// 所有者チェックは呼び出し側（ハンドラ）で済ませておくこと。
func (s *Store) UpdatePost(ctx context.Context, post *Post) error {
	post.UpdatedAt = time.Now().UTC()

	if _, err := s.db.NewUpdate().Model(post).
		Column("title", "content", "updated_at").
		Where("id = ?", post.ID).
		Exec(ctx); err != nil {
		return fmt.Errorf("投稿の更新に失敗: %w", err)
	}
	return nil
}

// DeletePost は投稿を削除する。存在しないIDに対してもエラーにはならない。
func (s *Store) DeletePost(ctx context.Context, id string) error {
	if _, err := s.db.NewDelete().Model((*Post)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
		return fmt.Errorf("投稿の削除に失敗: %w", err)
	}
	return nil
}
