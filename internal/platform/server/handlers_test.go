package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"chat-store/internal/message"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// memoryStore 記憶體內的消息存儲，僅供 HTTP 層測試使用.
type memoryStore struct {
	mu      sync.Mutex
	records []*message.MessageRecord
}

func (s *memoryStore) Create(_ context.Context, record *message.MessageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *record
	if clone.EntityID.IsZero() {
		clone.EntityID = bson.NewObjectID()
	}
	s.records = append(s.records, &clone)
	return nil
}

func (s *memoryStore) FindPage(_ context.Context, channelID, roomID string, offset, limit int64) ([]*message.MessageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*message.MessageRecord
	for _, record := range s.records {
		if record.ChannelID == channelID && record.RoomID == roomID {
			clone := *record
			matched = append(matched, &clone)
		}
	}
	if offset >= int64(len(matched)) {
		return nil, nil
	}
	end := offset + limit
	if end > int64(len(matched)) {
		end = int64(len(matched))
	}
	return matched[offset:end], nil
}

func (s *memoryStore) FindByMessageID(_ context.Context, messageID string) (*message.MessageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.MessageID == messageID {
			clone := *record
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) Save(_ context.Context, record *message.MessageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.records {
		if existing.EntityID == record.EntityID {
			clone := *record
			s.records[i] = &clone
			return nil
		}
	}
	return nil
}

func (s *memoryStore) Remove(_ context.Context, entityID bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.records {
		if existing.EntityID == entityID {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return nil
}

// memoryDirectory 記憶體內的用戶目錄.
type memoryDirectory struct {
	users map[string]*message.UserRecord
}

func (d *memoryDirectory) GetUserByID(_ context.Context, userID string) (*message.UserRecord, error) {
	return d.users[userID], nil
}

func newTestRouter() (*gin.Engine, *memoryStore) {
	gin.SetMode(gin.TestMode)

	store := &memoryStore{}
	dir := &memoryDirectory{users: map[string]*message.UserRecord{
		"u1": {UserID: "u1", Username: "Alice", Email: "alice@example.com", Password: "hash"},
	}}
	svc := message.NewService(store, dir)
	handler := NewMessageHandler(svc, dir)

	router := gin.New()
	api := router.Group("/api/v1")
	{
		api.POST("/messages", handler.CreateMessage)
		api.GET("/messages", handler.GetMessages)
		api.GET("/messages/:message_id", handler.GetMessageByID)
		api.PUT("/messages/:message_id", handler.UpdateMessage)
		api.DELETE("/messages/:message_id", handler.DeleteMessage)
	}
	return router, store
}

func performRequest(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

// TestCreateMessageEndpoint 測試創建消息端點
func TestCreateMessageEndpoint(t *testing.T) {
	router, store := newTestRouter()

	body := `{"message_id":"m1","channel_id":"c1","room_id":"r1","user_id":"u1","content":"hi"}`
	resp := performRequest(router, http.MethodPost, "/api/v1/messages", body, nil)

	if resp.Code != http.StatusCreated {
		t.Fatalf("狀態碼期望 201，實際 %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Data message.MessageView `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("解析回應失敗: %v", err)
	}

	// 同步回傳的視圖已蓋章並嵌入作者
	if payload.Data.Status != message.StatusSent {
		t.Errorf("回傳視圖 status 期望 sent，實際 %q", payload.Data.Status)
	}
	if payload.Data.CreatedAt.IsZero() {
		t.Error("回傳視圖缺少 created_at")
	}
	if payload.Data.User == nil || payload.Data.User.Username != "Alice" {
		t.Errorf("回傳視圖作者錯誤: %+v", payload.Data.User)
	}

	// 敏感欄位不得出現在回應中
	if strings.Contains(resp.Body.String(), "password") || strings.Contains(resp.Body.String(), "email") {
		t.Errorf("回應洩漏敏感欄位: %s", resp.Body.String())
	}

	record, _ := store.FindByMessageID(context.Background(), "m1")
	if record == nil {
		t.Fatal("消息未被持久化")
	}
}

// TestCreateMessageEndpointUnknownAuthor 測試目錄查無此人的作者以佔位用戶回傳
func TestCreateMessageEndpointUnknownAuthor(t *testing.T) {
	router, _ := newTestRouter()

	body := `{"message_id":"m2","channel_id":"c1","room_id":"r1","user_id":"u_ghost","content":"hi"}`
	resp := performRequest(router, http.MethodPost, "/api/v1/messages", body, nil)

	if resp.Code != http.StatusCreated {
		t.Fatalf("狀態碼期望 201，實際 %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Data message.MessageView `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("解析回應失敗: %v", err)
	}
	if payload.Data.User == nil || *payload.Data.User != message.PlaceholderUser("u_ghost") {
		t.Errorf("回傳視圖應嵌入佔位用戶，實際 %+v", payload.Data.User)
	}
}

// TestCreateMessageEndpointValidation 測試創建消息的請求驗證
func TestCreateMessageEndpointValidation(t *testing.T) {
	router, _ := newTestRouter()

	testCases := []struct {
		name string
		body string
	}{
		{"缺少必填欄位", `{"message_id":"m1"}`},
		{"空內容", `{"message_id":"m1","channel_id":"c1","room_id":"r1","user_id":"u1","content":"  "}`},
		{"非法 JSON", `{not json`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := performRequest(router, http.MethodPost, "/api/v1/messages", tc.body, nil)
			if resp.Code != http.StatusBadRequest {
				t.Errorf("狀態碼期望 400，實際 %d", resp.Code)
			}
		})
	}
}

// TestGetMessagesEndpoint 測試分頁讀取端點
func TestGetMessagesEndpoint(t *testing.T) {
	router, store := newTestRouter()

	base := time.Now().UTC()
	for i, id := range []string{"m1", "m2"} {
		store.Create(context.Background(), &message.MessageRecord{
			MessageID: id,
			ChannelID: "c1",
			RoomID:    "r1",
			UserID:    "u1",
			Content:   "hi",
			Status:    message.StatusSent,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	resp := performRequest(router, http.MethodGet, "/api/v1/messages?channel_id=c1&room_id=r1&limit=1&page=2", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("狀態碼期望 200，實際 %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Data []message.MessageView `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("解析回應失敗: %v", err)
	}
	if len(payload.Data) != 1 || payload.Data[0].MessageID != "m2" {
		t.Errorf("第二頁期望 [m2]，實際 %+v", payload.Data)
	}

	// 缺少範圍參數被拒絕
	resp = performRequest(router, http.MethodGet, "/api/v1/messages?channel_id=c1", "", nil)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("缺少 room_id 狀態碼期望 400，實際 %d", resp.Code)
	}
}

// TestUpdateMessageEndpoint 測試更新消息端點的授權映射
func TestUpdateMessageEndpoint(t *testing.T) {
	router, store := newTestRouter()

	store.Create(context.Background(), &message.MessageRecord{
		MessageID: "m1", ChannelID: "c1", RoomID: "r1",
		UserID: "u1", Content: "hi", Status: message.StatusSent, CreatedAt: time.Now().UTC(),
	})

	// 作者本人更新成功
	body := `{"user_id":"u1","content":"edited"}`
	resp := performRequest(router, http.MethodPut, "/api/v1/messages/m1", body, map[string]string{"X-User-ID": "u1"})
	if resp.Code != http.StatusOK {
		t.Fatalf("狀態碼期望 200，實際 %d: %s", resp.Code, resp.Body.String())
	}
	if record, _ := store.FindByMessageID(context.Background(), "m1"); record.Content != "edited" {
		t.Errorf("內容期望 edited，實際 %q", record.Content)
	}

	// 非作者更新回 403
	body = `{"user_id":"u2","content":"hacked"}`
	resp = performRequest(router, http.MethodPut, "/api/v1/messages/m1", body, map[string]string{"X-User-ID": "u2"})
	if resp.Code != http.StatusForbidden {
		t.Errorf("狀態碼期望 403，實際 %d", resp.Code)
	}

	// 不存在的消息回 404
	body = `{"user_id":"u1","content":"edited"}`
	resp = performRequest(router, http.MethodPut, "/api/v1/messages/missing", body, map[string]string{"X-User-ID": "u1"})
	if resp.Code != http.StatusNotFound {
		t.Errorf("狀態碼期望 404，實際 %d", resp.Code)
	}
}

// TestDeleteMessageEndpoint 測試刪除消息端點
func TestDeleteMessageEndpoint(t *testing.T) {
	router, store := newTestRouter()

	store.Create(context.Background(), &message.MessageRecord{
		MessageID: "m1", ChannelID: "c1", RoomID: "r1",
		UserID: "u1", Content: "hi", Status: message.StatusSent, CreatedAt: time.Now().UTC(),
	})

	// 未帶操作用戶被拒絕
	resp := performRequest(router, http.MethodDelete, "/api/v1/messages/m1", "", nil)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("狀態碼期望 400，實際 %d", resp.Code)
	}

	// 非作者刪除回 403
	resp = performRequest(router, http.MethodDelete, "/api/v1/messages/m1", "", map[string]string{"X-User-ID": "u2"})
	if resp.Code != http.StatusForbidden {
		t.Errorf("狀態碼期望 403，實際 %d", resp.Code)
	}

	// 作者本人刪除成功
	resp = performRequest(router, http.MethodDelete, "/api/v1/messages/m1", "", map[string]string{"X-User-ID": "u1"})
	if resp.Code != http.StatusOK {
		t.Fatalf("狀態碼期望 200，實際 %d: %s", resp.Code, resp.Body.String())
	}
	if record, _ := store.FindByMessageID(context.Background(), "m1"); record != nil {
		t.Error("消息應已被刪除")
	}

	// 重複刪除回 404
	resp = performRequest(router, http.MethodDelete, "/api/v1/messages/m1", "", map[string]string{"X-User-ID": "u1"})
	if resp.Code != http.StatusNotFound {
		t.Errorf("狀態碼期望 404，實際 %d", resp.Code)
	}
}

// TestGetMessageByIDEndpoint 測試按 ID 讀取端點
func TestGetMessageByIDEndpoint(t *testing.T) {
	router, store := newTestRouter()

	store.Create(context.Background(), &message.MessageRecord{
		MessageID: "m1", ChannelID: "c1", RoomID: "r1",
		UserID: "u1", Content: "hi", Status: message.StatusSent, CreatedAt: time.Now().UTC(),
	})

	resp := performRequest(router, http.MethodGet, "/api/v1/messages/m1", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("狀態碼期望 200，實際 %d", resp.Code)
	}

	resp = performRequest(router, http.MethodGet, "/api/v1/messages/missing", "", nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("狀態碼期望 404，實際 %d", resp.Code)
	}
}
