package server

import (
	"net/http"

	"chat-store/internal/constants"
	"chat-store/internal/httputil"
	"chat-store/internal/message"
	"chat-store/internal/platform/config"
	"chat-store/internal/platform/middleware"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息 API 處理器.
// 只負責綁定請求、驗證、調用生命週期服務，並把帶標記的結果映射為 HTTP 狀態碼.
type MessageHandler struct {
	service *message.Service
	users   message.UserDirectory
}

// NewMessageHandler 創建新的消息處理器.
func NewMessageHandler(service *message.Service, users message.UserDirectory) *MessageHandler {
	return &MessageHandler{
		service: service,
		users:   users,
	}
}

// CreateMessage 創建消息.
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "無效的請求格式")
		return
	}

	if err := validateCreateMessageRequest(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()

	// 解析作者以便把用戶資料嵌入同步回傳的視圖
	actingUser := message.PlaceholderUser(req.UserID)
	author, err := h.users.GetUserByID(ctx, req.UserID)
	if err != nil {
		httputil.InternalServerError(c, err)
		return
	}
	if author != nil {
		actingUser = author.View()
	}

	payload := message.MessageRecord{
		MessageID: req.MessageID,
		ChannelID: req.ChannelID,
		RoomID:    req.RoomID,
		UserID:    req.UserID,
		Content:   middleware.SanitizeInput(req.Content),
	}

	dbForm, viewForm := h.service.StampAndProject(payload, actingUser)

	if res := h.service.CreateMessage(ctx, &dbForm); !res.Success() {
		h.respondFailure(c, res)
		return
	}

	c.JSON(http.StatusCreated, httputil.NewSuccessResponse(httputil.MessageCreated, viewForm))
}

// GetMessages 分頁讀取消息.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	var req MessageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, "缺少 channel_id 或 room_id 參數")
		return
	}

	if err := validateMessageListRequest(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	// 分頁上限只在傳輸層收緊，核心保持 offset = limit * (page - 1) 的語義
	maxPageSize := int64(constants.MaxPageSize)
	if cfg := config.Get(); cfg != nil && cfg.Limits.Pagination.MaxPageSize > 0 {
		maxPageSize = int64(cfg.Limits.Pagination.MaxPageSize)
	}
	limit := req.Limit
	if limit > maxPageSize {
		limit = maxPageSize
	}

	views, res := h.service.GetMessages(c.Request.Context(), req.ChannelID, req.RoomID, message.PageOptions{
		Limit: limit,
		Page:  req.Page,
	})
	if !res.Success() {
		h.respondFailure(c, res)
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse(httputil.PageRetrieved, views))
}

// GetMessageByID 按 ID 讀取消息.
func (h *MessageHandler) GetMessageByID(c *gin.Context) {
	messageID := c.Param("message_id")
	if err := middleware.ValidateMessageID(messageID); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	view, res := h.service.GetMessageByID(c.Request.Context(), messageID)
	if !res.Success() {
		h.respondFailure(c, res)
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse(httputil.MessageRetrieved, view))
}

// UpdateMessage 授權修改消息內容.
func (h *MessageHandler) UpdateMessage(c *gin.Context) {
	messageID := c.Param("message_id")
	if err := middleware.ValidateMessageID(messageID); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	var req UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "無效的請求格式")
		return
	}

	if err := middleware.ValidateMessageContent(req.Content); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	actingUserID := middleware.ActingUserID(c)
	if actingUserID == "" {
		actingUserID = req.UserID
	}

	patch := &message.MessageRecord{
		MessageID: messageID,
		UserID:    req.UserID,
		Content:   middleware.SanitizeInput(req.Content),
	}

	res := h.service.UpdateMessage(c.Request.Context(), patch, message.UserView{UserID: actingUserID})
	if !res.Success() {
		h.respondFailure(c, res)
		return
	}

	c.JSON(http.StatusOK, httputil.Success(httputil.MessageUpdated))
}

// DeleteMessage 授權刪除消息.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	messageID := c.Param("message_id")
	if err := middleware.ValidateMessageID(messageID); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	actingUserID := middleware.ActingUserID(c)
	if err := middleware.ValidateUserID(actingUserID); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	patch := &message.MessageRecord{
		MessageID: messageID,
		UserID:    actingUserID,
	}

	res := h.service.DeleteMessage(c.Request.Context(), patch, message.UserView{UserID: actingUserID})
	if !res.Success() {
		h.respondFailure(c, res)
		return
	}

	c.JSON(http.StatusOK, httputil.Success(httputil.MessageDeleted))
}

// respondFailure 把帶標記的失敗結果映射為 HTTP 狀態碼.
func (h *MessageHandler) respondFailure(c *gin.Context, res message.Result) {
	switch res.Kind {
	case message.KindNotFound:
		httputil.NotFoundError(c, "消息不存在")
	case message.KindUnauthorized:
		httputil.Forbidden(c, "只有消息作者可以執行此操作")
	default:
		httputil.InternalServerError(c, res.Err)
	}
}
