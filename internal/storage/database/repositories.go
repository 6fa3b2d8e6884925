package database

import (
	"context"

	"chat-store/internal/platform/logger"
	messagestore "chat-store/internal/storage/database/message"
	userstore "chat-store/internal/storage/database/user"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Repositories 倉儲集合.
// 進程啟動時以顯式傳入的數據庫句柄建構一次，再注入到消息生命週期服務.
type Repositories struct {
	Messages *messagestore.Store
	Users    *userstore.Store
}

// NewRepositories 創建倉儲集合並建立索引.
func NewRepositories(ctx context.Context, db *mongo.Database) *Repositories {
	// 創建索引以優化查詢性能；失敗只記錄，不中斷服務啟動
	if err := CreateIndexes(ctx, db); err != nil {
		logger.Warningf(ctx, "創建索引失敗: %v", err)
	}

	return &Repositories{
		Messages: messagestore.NewStore(db),
		Users:    userstore.NewStore(db),
	}
}
