package main

import (
	"context"
	"fmt"
	"os"

	"chat-store/internal/message"
	"chat-store/internal/platform/config"
	"chat-store/internal/platform/driver"
	"chat-store/internal/platform/health"
	"chat-store/internal/platform/logger"
	"chat-store/internal/platform/server"
	"chat-store/internal/storage/database"
)

func main() {
	if err := mainNoExit(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// mainNoExit 分離主要邏輯以避免 exitAfterDefer 問題，確保 defer 函數正常執行.
func mainNoExit() error {
	// 載入配置.
	if err := config.Load(); err != nil {
		return err
	}

	// 初始化日誌.
	if err := logger.InitLogger(); err != nil {
		return err
	}
	defer logger.CloseLogger()

	ctx := context.Background()
	logger.Infof(ctx, "設定載入成功，環境: %s", config.GetEnv())

	// 連接資料庫，句柄顯式傳遞，不使用全局狀態.
	mongo, err := driver.Connect(config.Get().Database.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongo.Close(); err != nil {
			logger.Errorf(ctx, "關閉 MongoDB 連接失敗: %v", err)
		}
	}()

	// 初始化倉儲並注入消息生命週期服務.
	repos := database.NewRepositories(ctx, mongo.Database())
	svc := message.NewService(repos.Messages, repos.Users)

	healthHandler := health.NewHandler(mongo)

	// 啟動 HTTP 伺服器，阻塞直到收到關閉信號.
	return server.Start(svc, repos.Users, healthHandler)
}
