package database

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CreateIndexes 創建數據庫索引以優化查詢性能
func CreateIndexes(ctx context.Context, db *mongo.Database) error {
	// 消息集合索引
	messagesCollection := db.Collection("messages")

	// 1. 頻道 + 聊天室 + 創建時間複合索引（分頁讀取的主要索引）
	scopeTimeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "channel_id", Value: 1},
			{Key: "room_id", Value: 1},
			{Key: "created_at", Value: 1},
		},
		Options: options.Index().SetName("scope_time_idx"),
	}

	// 2. 消息 ID 索引（existence 查詢用，第一筆匹配即是權威記錄，不做唯一性約束）
	messageIDIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "message_id", Value: 1},
		},
		Options: options.Index().SetName("message_id_idx"),
	}

	// 3. 作者 ID 索引
	authorIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
		},
		Options: options.Index().SetName("author_idx"),
	}

	_, err := messagesCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		scopeTimeIndex,
		messageIDIndex,
		authorIndex,
	})
	if err != nil {
		return err
	}

	// 用戶目錄集合索引
	usersCollection := db.Collection("users")

	userIDIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
		},
		Options: options.Index().SetName("user_id_idx"),
	}

	_, err = usersCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{userIDIndex})
	return err
}
