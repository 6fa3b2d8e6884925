package message

import (
	"context"
	"errors"

	msg "chat-store/internal/message"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Store message 存儲實作，實現 msg.MessageRepository.
type Store struct {
	collection *mongo.Collection
}

// NewStore 創建新的 message 存儲.
func NewStore(db *mongo.Database) *Store {
	return &Store{
		collection: db.Collection("messages"),
	}
}

// Create 持久化一筆新消息.
// status 和 created_at 由生命週期服務蓋章，存儲層只分配存儲標識.
func (s *Store) Create(ctx context.Context, record *msg.MessageRecord) error {
	if record.EntityID.IsZero() {
		record.EntityID = bson.NewObjectID()
	}

	_, err := s.collection.InsertOne(ctx, record)
	return err
}

// FindPage 以 channel_id + room_id 等值過濾，按 created_at 升序取分頁窗口.
func (s *Store) FindPage(ctx context.Context, channelID, roomID string, offset, limit int64) ([]*msg.MessageRecord, error) {
	filter := bson.M{
		"channel_id": channelID,
		"room_id":    roomID,
	}

	opts := options.Find()
	opts.SetSkip(offset)
	opts.SetLimit(limit)
	opts.SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*msg.MessageRecord
	for cursor.Next(ctx) {
		var record msg.MessageRecord
		if err := cursor.Decode(&record); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	return records, cursor.Err()
}

// FindByMessageID 按 message_id 取第一筆匹配，不存在時回傳 (nil, nil).
func (s *Store) FindByMessageID(ctx context.Context, messageID string) (*msg.MessageRecord, error) {
	var record msg.MessageRecord
	err := s.collection.FindOne(ctx, bson.M{"message_id": messageID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// Save 以存儲標識整筆覆寫既有記錄.
func (s *Store) Save(ctx context.Context, record *msg.MessageRecord) error {
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": record.EntityID}, record)
	return err
}

// Remove 以存儲標識硬刪除.
func (s *Store) Remove(ctx context.Context, entityID bson.ObjectID) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": entityID})
	return err
}
