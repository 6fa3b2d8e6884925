package httputil

import "github.com/gin-gonic/gin"

// 成功訊息常數.
const (
	MessageCreated   = "message created successfully"
	MessageUpdated   = "message updated successfully"
	MessageDeleted   = "message deleted successfully"
	MessageRetrieved = "message retrieved successfully"
	PageRetrieved    = "messages retrieved successfully"
)

// SuccessResponse 成功回應結構.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse 創建成功回應.
func NewSuccessResponse(message string, data interface{}) *SuccessResponse {
	return &SuccessResponse{
		Message: message,
		Data:    data,
	}
}

// Success 回傳簡單的成功訊息回應.
func Success(message string) gin.H {
	return gin.H{"message": message}
}

// ErrorMessage 回傳簡單的錯誤訊息回應.
func ErrorMessage(message string) gin.H {
	return gin.H{"error": message}
}
