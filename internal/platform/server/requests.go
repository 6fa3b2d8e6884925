package server

import "chat-store/internal/platform/middleware"

// CreateMessageRequest 創建消息請求.
// message_id 由調用方在創建前分配，status 與 created_at 由服務蓋章，不接受外部值.
type CreateMessageRequest struct {
	MessageID string `json:"message_id" binding:"required"`
	ChannelID string `json:"channel_id" binding:"required"`
	RoomID    string `json:"room_id" binding:"required"`
	UserID    string `json:"user_id" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

// UpdateMessageRequest 更新消息請求，只有 content 可變.
type UpdateMessageRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// MessageListRequest 消息分頁請求.
type MessageListRequest struct {
	ChannelID string `form:"channel_id" binding:"required"`
	RoomID    string `form:"room_id" binding:"required"`
	Limit     int64  `form:"limit"`
	Page      int64  `form:"page"`
}

// validateCreateMessageRequest 驗證創建消息請求.
func validateCreateMessageRequest(req *CreateMessageRequest) error {
	if err := middleware.ValidateMessageID(req.MessageID); err != nil {
		return err
	}
	if err := middleware.ValidateScopeID("channel_id", req.ChannelID); err != nil {
		return err
	}
	if err := middleware.ValidateScopeID("room_id", req.RoomID); err != nil {
		return err
	}
	if err := middleware.ValidateUserID(req.UserID); err != nil {
		return err
	}
	return middleware.ValidateMessageContent(req.Content)
}

// validateMessageListRequest 驗證消息分頁請求.
func validateMessageListRequest(req *MessageListRequest) error {
	if err := middleware.ValidateScopeID("channel_id", req.ChannelID); err != nil {
		return err
	}
	return middleware.ValidateScopeID("room_id", req.RoomID)
}
