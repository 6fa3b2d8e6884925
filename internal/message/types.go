package message

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// 消息狀態常數.
const (
	StatusSent = "sent"
)

// MessageRecord 消息持久化模型.
// EntityID 是存儲層分配的不透明標識，只用於刪除定位，永遠不出現在視圖中.
type MessageRecord struct {
	EntityID  bson.ObjectID `bson:"_id,omitempty" json:"-"`
	MessageID string        `bson:"message_id" json:"message_id"`
	ChannelID string        `bson:"channel_id" json:"channel_id"`
	RoomID    string        `bson:"room_id" json:"room_id"`
	UserID    string        `bson:"user_id" json:"user_id"`
	Content   string        `bson:"content" json:"content"`
	Status    string        `bson:"status" json:"status"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

// UserRecord 用戶目錄持久化模型，包含永遠不對客戶端暴露的敏感欄位.
type UserRecord struct {
	EntityID  bson.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    string        `bson:"user_id"`
	Username  string        `bson:"username"`
	Avatar    string        `bson:"avatar,omitempty"`
	Email     string        `bson:"email,omitempty"`
	Password  string        `bson:"password,omitempty"`
	Friends   []string      `bson:"friends,omitempty"`
	CreatedAt time.Time     `bson:"created_at"`
}

// UserView 用戶視圖投影.
// 逐欄位建構，編譯器保證 password/email/friends/entityId 不會洩漏.
type UserView struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// View 產生用戶視圖投影.
func (u *UserRecord) View() UserView {
	return UserView{
		UserID:   u.UserID,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}

// MessageView 消息視圖投影，不含 user_id 和存儲標識.
// User 只在分頁讀取（enrichment）路徑填入，按 ID 查詢不做補全.
type MessageView struct {
	MessageID string    `json:"message_id"`
	ChannelID string    `json:"channel_id"`
	RoomID    string    `json:"room_id"`
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	User      *UserView `json:"user,omitempty"`
}

// View 產生消息視圖投影，user 可以為 nil.
func (m *MessageRecord) View(user *UserView) MessageView {
	return MessageView{
		MessageID: m.MessageID,
		ChannelID: m.ChannelID,
		RoomID:    m.RoomID,
		Content:   m.Content,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		User:      user,
	}
}
