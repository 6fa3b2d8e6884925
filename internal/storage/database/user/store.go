package user

import (
	"context"
	"errors"

	msg "chat-store/internal/message"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Store 用戶目錄存儲實作，實現 msg.UserDirectory.
type Store struct {
	collection *mongo.Collection
}

// NewStore 創建新的用戶目錄存儲.
func NewStore(db *mongo.Database) *Store {
	return &Store{
		collection: db.Collection("users"),
	}
}

// GetUserByID 按 user_id 取用戶記錄，查無此人時回傳 (nil, nil).
func (s *Store) GetUserByID(ctx context.Context, userID string) (*msg.UserRecord, error) {
	var record msg.UserRecord
	err := s.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// Create 創建用戶記錄，開發環境的種子工具使用.
func (s *Store) Create(ctx context.Context, record *msg.UserRecord) error {
	if record.EntityID.IsZero() {
		record.EntityID = bson.NewObjectID()
	}

	_, err := s.collection.InsertOne(ctx, record)
	return err
}
