package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"chat-store/internal/constants"
	"chat-store/internal/platform/config"

	"github.com/gin-gonic/gin"
)

// ValidateMessageContent 驗證訊息內容
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("訊息內容不能為空")
	}

	cfg := config.Get()
	maxLength := constants.DefaultMaxMessageLength
	if cfg != nil && cfg.Limits.Message.MaxLength > 0 {
		maxLength = cfg.Limits.Message.MaxLength
	}

	if len(content) > maxLength {
		return fmt.Errorf("訊息內容超過最大長度限制 (%d 字符)", maxLength)
	}

	// 防止 NULL 字符注入
	if strings.Contains(content, "\x00") {
		return fmt.Errorf("訊息內容包含非法字符")
	}

	return nil
}

// ValidateUserID 驗證用戶 ID 格式
func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("用戶 ID 不能為空")
	}

	if len(userID) > constants.MaxUserIDLength {
		return fmt.Errorf("用戶 ID 格式錯誤")
	}

	// 防止 NULL 字符注入和特殊字符
	if strings.ContainsAny(userID, "\x00${}[]") {
		return fmt.Errorf("用戶 ID 包含非法字符")
	}

	return nil
}

// ValidateMessageID 驗證消息 ID 格式.
// message_id 由調用方在創建前分配，是不透明字串，只做長度和字符檢查.
func ValidateMessageID(messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("消息 ID 不能為空")
	}

	if len(messageID) > constants.MaxMessageIDLength {
		return fmt.Errorf("消息 ID 格式錯誤")
	}

	if strings.ContainsAny(messageID, "\x00${}[]") {
		return fmt.Errorf("消息 ID 包含非法字符")
	}

	return nil
}

// ValidateScopeID 驗證 channel_id / room_id 格式
func ValidateScopeID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s 不能為空", field)
	}

	if len(id) > constants.MaxScopeIDLength {
		return fmt.Errorf("%s 格式錯誤", field)
	}

	if strings.ContainsAny(id, "\x00${}[]") {
		return fmt.Errorf("%s 包含非法字符", field)
	}

	return nil
}

// SanitizeInput 消毒輸入（移除危險字符）
func SanitizeInput(input string) string {
	// 移除 NULL 字符
	input = strings.ReplaceAll(input, "\x00", "")

	// 移除控制字符（除了換行和 Tab）
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\n' || r == '\t' {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// RequestSizeLimiter 限制請求體大小的中間件
func RequestSizeLimiter(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("請求體過大，最大允許 %d 字節", maxSize),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
