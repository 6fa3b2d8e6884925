package message

import (
	"context"
	"math"
	"sync"
	"time"

	"chat-store/internal/platform/logger"

	"golang.org/x/sync/errgroup"
)

// DefaultPageLimit 分頁查詢預設筆數.
const DefaultPageLimit = 100

// placeholderUsername 作者在目錄中查無此人時填入的佔位名稱.
// 佔位策略讓分頁結果永遠不會靜默丟失消息（相對於整頁失敗或跳過該筆）.
const placeholderUsername = "unknown"

// PlaceholderUser 目錄查無此人時的佔位用戶視圖，佔位策略的唯一定義.
func PlaceholderUser(userID string) UserView {
	return UserView{UserID: userID, Username: placeholderUsername}
}

// Service 消息生命週期服務.
// 負責創建、授權修改、授權刪除、存在查詢與分頁讀取，
// 持久化委派給 MessageRepository，作者補全委派給 UserDirectory.
// 服務本身沒有可變共享狀態，所有狀態都是請求區域性的.
type Service struct {
	messages MessageRepository
	users    UserDirectory
}

// NewService 創建消息生命週期服務.
func NewService(messages MessageRepository, users UserDirectory) *Service {
	return &Service{
		messages: messages,
		users:    users,
	}
}

// PageOptions 分頁選項，頁碼從 1 起算.
type PageOptions struct {
	Limit int64
	Page  int64
}

// StampAndProject 純轉換，不做 I/O.
// 蓋上 status 與 created_at 後，從同一份蓋章後的資料產生持久化形式與視圖形式，
// 保證同步回傳給調用方的視圖和實際落庫的記錄蓋章值不會分叉.
func (s *Service) StampAndProject(payload MessageRecord, actingUser UserView) (MessageRecord, MessageView) {
	payload.Status = StatusSent
	payload.CreatedAt = time.Now().UTC()

	return payload, payload.View(&actingUser)
}

// CreateMessage 持久化一筆消息.
// 存儲失敗以 Result 回傳給直接調用方，不向上拋出.
func (s *Service) CreateMessage(ctx context.Context, record *MessageRecord) Result {
	if err := s.messages.Create(ctx, record); err != nil {
		logger.Error(ctx, "創建消息失敗",
			logger.WithMessageID(record.MessageID),
			logger.WithChannelID(record.ChannelID),
			logger.WithRoomID(record.RoomID),
			logger.WithDetails(map[string]interface{}{"error": err.Error()}))
		return storeFailure(err)
	}

	return ok()
}

// GetMessages 分頁讀取指定 channel/room 的消息並補全作者資料.
// offset = limit * (page - 1)，第 1 頁對應 offset 0.
// 任何底層失敗都不回傳部分頁：成功的空頁（範圍內沒有消息）與請求級失敗由 Result 區分.
func (s *Service) GetMessages(ctx context.Context, channelID, roomID string, opts PageOptions) ([]MessageView, Result) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}

	// offset 超出 int64 可表示範圍的頁碼不可能有資料，視為成功的空頁，
	// 不讓溢位後的負 offset 流入存儲層.
	if page-1 > math.MaxInt64/limit {
		return []MessageView{}, ok()
	}
	offset := limit * (page - 1)

	records, err := s.messages.FindPage(ctx, channelID, roomID, offset, limit)
	if err != nil {
		logger.Error(ctx, "讀取消息分頁失敗",
			logger.WithChannelID(channelID),
			logger.WithRoomID(roomID),
			logger.WithDetails(map[string]interface{}{"error": err.Error()}))
		return nil, storeFailure(err)
	}

	users, err := s.resolveAuthors(ctx, records)
	if err != nil {
		logger.Error(ctx, "解析消息作者失敗",
			logger.WithChannelID(channelID),
			logger.WithRoomID(roomID),
			logger.WithDetails(map[string]interface{}{"error": err.Error()}))
		return nil, directoryFailure(err)
	}

	// 以 user_id 等值重新接合，保持存儲層回傳的頁面順序，與目錄解析完成順序無關.
	views := make([]MessageView, 0, len(records))
	for _, record := range records {
		view := record.View(s.authorView(ctx, users, record.UserID))
		views = append(views, view)
	}

	return views, ok()
}

// resolveAuthors 收集頁面中相異的作者 ID，並行解析，每個 ID 只查一次.
func (s *Service) resolveAuthors(ctx context.Context, records []*MessageRecord) (map[string]*UserRecord, error) {
	distinct := make(map[string]struct{}, len(records))
	for _, record := range records {
		distinct[record.UserID] = struct{}{}
	}

	users := make(map[string]*UserRecord, len(distinct))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for userID := range distinct {
		g.Go(func() error {
			user, err := s.users.GetUserByID(gctx, userID)
			if err != nil {
				return err
			}

			mu.Lock()
			users[userID] = user
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return users, nil
}

// authorView 取作者視圖；目錄查無此人時使用佔位用戶，不會憑空捏造目錄資料.
func (s *Service) authorView(ctx context.Context, users map[string]*UserRecord, userID string) *UserView {
	if user := users[userID]; user != nil {
		view := user.View()
		return &view
	}

	logger.Warning(ctx, "消息作者在用戶目錄中不存在，使用佔位用戶",
		logger.WithUserID(userID))

	view := PlaceholderUser(userID)
	return &view
}

// GetMessageByID 按 message_id 查詢消息並回傳視圖，不做作者補全.
func (s *Service) GetMessageByID(ctx context.Context, messageID string) (MessageView, Result) {
	record, err := s.messageExist(ctx, messageID)
	if err != nil {
		return MessageView{}, storeFailure(err)
	}
	if record == nil {
		return MessageView{}, notFound()
	}

	return record.View(nil), ok()
}

// UpdateMessage 授權修改消息內容.
// 只有 content 會被覆寫；消息不存在回傳 NotFound（創建與刪除使用同一個策略）.
func (s *Service) UpdateMessage(ctx context.Context, patch *MessageRecord, actingUser UserView) Result {
	if !hasAccess(patch, actingUser) {
		return unauthorized()
	}

	prev, err := s.messageExist(ctx, patch.MessageID)
	if err != nil {
		return storeFailure(err)
	}
	if prev == nil {
		return notFound()
	}

	// 已存記錄的所有權也要成立，patch 宣稱的 user_id 不可信.
	if !hasAccess(prev, actingUser) {
		return unauthorized()
	}

	prev.Content = patch.Content
	if err := s.messages.Save(ctx, prev); err != nil {
		logger.Error(ctx, "保存消息更新失敗",
			logger.WithMessageID(patch.MessageID),
			logger.WithDetails(map[string]interface{}{"error": err.Error()}))
		return storeFailure(err)
	}

	return ok()
}

// DeleteMessage 授權刪除消息，以存儲標識硬刪除.
func (s *Service) DeleteMessage(ctx context.Context, patch *MessageRecord, actingUser UserView) Result {
	if !hasAccess(patch, actingUser) {
		return unauthorized()
	}

	prev, err := s.messageExist(ctx, patch.MessageID)
	if err != nil {
		return storeFailure(err)
	}
	if prev == nil {
		return notFound()
	}

	if !hasAccess(prev, actingUser) {
		return unauthorized()
	}

	if err := s.messages.Remove(ctx, prev.EntityID); err != nil {
		logger.Error(ctx, "刪除消息失敗",
			logger.WithMessageID(patch.MessageID),
			logger.WithDetails(map[string]interface{}{"error": err.Error()}))
		return storeFailure(err)
	}

	return ok()
}

// messageExist 按 message_id 取第一筆匹配的原始記錄，不存在時回傳 nil.
func (s *Service) messageExist(ctx context.Context, messageID string) (*MessageRecord, error) {
	return s.messages.FindByMessageID(ctx, messageID)
}

// hasAccess 系統中唯一的授權規則：所有權等值，沒有角色，沒有管理員覆寫.
func hasAccess(record *MessageRecord, user UserView) bool {
	return record != nil && record.UserID == user.UserID
}
