// ブログバックエンドのエントリポイント。
// アカウント登録・ログインと、所有者チェック付きの投稿CRUDを提供する。
package main

import (
	"log"

	"github.com/nao1215/miniblog/internal/blog"
)

func main() {
	cfg := blog.LoadConfig()

	server, err := blog.NewServer(cfg)
	if err != nil {
		log.Fatalf("ブログサーバーの初期化に失敗: %v", err)
	}

	log.Printf("ブログサービスを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("ブログサービスの起動に失敗: %v", err)
	}
}
