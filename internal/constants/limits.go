package constants

// HTTP 請求相關常數
const (
	// 默認值（可被配置覆蓋）
	DefaultMaxRequestBodySize = 1 << 20 // 1MB
	DefaultRequestTimeout     = 30      // 秒
)

// 分頁相關常數
const (
	// MaxPageSize 傳輸層單頁筆數上限（可被配置覆蓋）
	MaxPageSize = 1000
)

// 訊息相關常數
const (
	DefaultMaxMessageLength = 10000
)

// 標識欄位相關常數
const (
	MaxUserIDLength    = 100
	MaxMessageIDLength = 100
	MaxScopeIDLength   = 100 // channel_id / room_id
)
