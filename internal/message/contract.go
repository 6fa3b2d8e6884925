package message

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MessageRepository 消息存儲接口.
// 服務啟動時建構一次並以引用注入，沒有全局延遲初始化的連接句柄.
type MessageRepository interface {
	// Create 持久化一筆新消息.
	Create(ctx context.Context, record *MessageRecord) error
	// FindPage 以 channel_id + room_id 等值過濾，按 created_at 升序取 [offset, offset+limit) 窗口.
	FindPage(ctx context.Context, channelID, roomID string, offset, limit int64) ([]*MessageRecord, error)
	// FindByMessageID 按 message_id 取第一筆匹配，不存在時回傳 (nil, nil).
	FindByMessageID(ctx context.Context, messageID string) (*MessageRecord, error)
	// Save 以存儲標識整筆覆寫既有記錄.
	Save(ctx context.Context, record *MessageRecord) error
	// Remove 以存儲標識硬刪除，沒有墓碑.
	Remove(ctx context.Context, entityID bson.ObjectID) error
}

// UserDirectory 用戶目錄接口，解析 user_id 為用戶記錄.
type UserDirectory interface {
	// GetUserByID 按 user_id 取用戶記錄，查無此人時回傳 (nil, nil).
	GetUserByID(ctx context.Context, userID string) (*UserRecord, error)
}
