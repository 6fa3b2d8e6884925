package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-store/internal/constants"
	"chat-store/internal/message"
	"chat-store/internal/platform/config"
	"chat-store/internal/platform/health"
	"chat-store/internal/platform/logger"
	"chat-store/internal/platform/middleware"

	"github.com/gin-gonic/gin"
)

// securityHeadersMiddleware 添加安全標頭
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 防止點擊劫持
		c.Header("X-Frame-Options", "DENY")

		// 防止 MIME 類型嗅探
		c.Header("X-Content-Type-Options", "nosniff")

		// 推薦政策
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		c.Next()
	}
}

// corsMiddleware 安全的 CORS 中間件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// 只允許特定的來源（生產環境應該從配置文件讀取）
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true, // 開發環境前端
			"http://localhost:8080": true, // 本地測試
			"http://127.0.0.1:8080": true, // 本地測試 (127.0.0.1)
		}

		if allowedOrigins[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID, X-User-ID")
		c.Header("Access-Control-Max-Age", "86400") // 預檢請求緩存 24 小時

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Router 設定路由.
func Router(svc *message.Service, users message.UserDirectory, healthHandler *health.Handler) *gin.Engine {
	r := gin.Default()

	r.Use(corsMiddleware())

	// 添加請求 ID 中間件（最優先）
	r.Use(middleware.RequestIDMiddleware())

	// 添加安全標頭中間件
	r.Use(securityHeadersMiddleware())

	// 添加請求元數據中間件（提取 IP、User-Agent、用戶身份）
	r.Use(middleware.RequestMetadataMiddleware())

	// 添加請求大小限制
	cfg := config.Get()
	maxBodySize := int64(constants.DefaultMaxRequestBodySize)
	if cfg != nil && cfg.Limits.Request.MaxBodySize > 0 {
		maxBodySize = cfg.Limits.Request.MaxBodySize
	}
	r.Use(middleware.RequestSizeLimiter(maxBodySize))

	// health check
	r.GET("/health", healthHandler.HealthCheck)

	// 消息 API 路由
	messageHandler := NewMessageHandler(svc, users)

	v1 := r.Group("/api/v1")
	v1.POST("/messages", messageHandler.CreateMessage)
	v1.GET("/messages", messageHandler.GetMessages)
	v1.GET("/messages/:message_id", messageHandler.GetMessageByID)
	v1.PUT("/messages/:message_id", messageHandler.UpdateMessage)
	v1.DELETE("/messages/:message_id", messageHandler.DeleteMessage)

	return r
}

// Start 啟動 HTTP 伺服器並等待關閉信號.
func Start(svc *message.Service, users message.UserDirectory, healthHandler *health.Handler) error {
	ctx := context.Background()
	cfg := config.Get()

	router := Router(svc, users, healthHandler)

	timeout := constants.DefaultRequestTimeout
	if cfg.Server.Timeout > 0 {
		timeout = cfg.Server.Timeout
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(timeout) * time.Second,
		WriteTimeout: time.Duration(timeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// start server
	go func() {
		logger.Infof(ctx, "伺服器正在監聽埠口: %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf(ctx, "伺服器啟動失敗: %v", err)
			os.Exit(1)
		}
	}()

	// 等待關閉信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "收到關閉信號，正在優雅關閉伺服器...", logger.WithAction("shutdown"))

	// 優雅關閉
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "伺服器關閉失敗: %v", err)
		return err
	}

	logger.Infof(ctx, "伺服器已優雅關閉")
	return nil
}
