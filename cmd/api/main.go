package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/workvoice/workvoice-services/api/internal/config"
	"github.com/workvoice/workvoice-services/api/internal/server"
)

func main() {
	// ローカル開発用。.env が無い環境（本番）ではエラーを無視して環境変数を直接読む。
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		cfg.ServerLog.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}

	app := server.New(cfg, client)
	if err := app.Run(); err != nil {
		log.Fatalf("サーバー起動に失敗: %v", err)
	}
}
