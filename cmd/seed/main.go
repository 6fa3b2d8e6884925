package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"chat-store/internal/message"
	"chat-store/internal/platform/config"
	"chat-store/internal/platform/driver"
	"chat-store/internal/platform/logger"
	"chat-store/internal/storage/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// 開發環境種子工具：建立示範用戶與消息，方便本地測試分頁和授權流程.
func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("載入配置失敗: %v", err)
	}
	if err := logger.InitLogger(); err != nil {
		log.Fatalf("初始化日誌失敗: %v", err)
	}
	defer logger.CloseLogger()

	ctx := context.Background()

	mongo, err := driver.Connect(config.Get().Database.Mongo)
	if err != nil {
		log.Fatalf("連接資料庫失敗: %v", err)
	}
	defer mongo.Close()

	repos := database.NewRepositories(ctx, mongo.Database())
	svc := message.NewService(repos.Messages, repos.Users)

	users := seedUsers(ctx, repos)
	seedMessages(ctx, svc, users)

	fmt.Println("種子資料建立完成")
}

// seedUsers 建立示範用戶，密碼以 bcrypt 雜湊後存入目錄.
func seedUsers(ctx context.Context, repos *database.Repositories) []message.UserRecord {
	users := []message.UserRecord{
		{UserID: "user_alice", Username: "Alice", Email: "alice@example.com", Friends: []string{"user_bob"}},
		{UserID: "user_bob", Username: "Bob", Email: "bob@example.com", Friends: []string{"user_alice"}},
		{UserID: "user_carol", Username: "Carol", Email: "carol@example.com"},
	}

	for i := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("生成密碼雜湊失敗: %v", err)
		}
		users[i].Password = string(hash)
		users[i].CreatedAt = time.Now().UTC()

		if err := repos.Users.Create(ctx, &users[i]); err != nil {
			log.Fatalf("建立用戶 %s 失敗: %v", users[i].UserID, err)
		}
		fmt.Printf("✓ 用戶已建立: %s (%s)\n", users[i].Username, users[i].UserID)
	}

	return users
}

// seedMessages 透過生命週期服務建立示範消息，蓋章邏輯與正式路徑一致.
func seedMessages(ctx context.Context, svc *message.Service, users []message.UserRecord) {
	contents := []string{
		"大家好！",
		"Hello, World!",
		"今天的進度如何？",
		"分頁測試消息",
	}

	for i, content := range contents {
		author := users[i%len(users)]
		payload := message.MessageRecord{
			MessageID: uuid.New().String(),
			ChannelID: "channel_general",
			RoomID:    "room_lobby",
			UserID:    author.UserID,
			Content:   content,
		}

		dbForm, _ := svc.StampAndProject(payload, author.View())
		if res := svc.CreateMessage(ctx, &dbForm); !res.Success() {
			log.Fatalf("建立消息失敗: %v", res.Err)
		}
		fmt.Printf("✓ 消息已建立: %s (%s)\n", dbForm.MessageID, author.Username)

		// 保持 created_at 單調遞增，讓分頁順序可預期
		time.Sleep(10 * time.Millisecond)
	}
}
