package config

import (
	"strings"
	"testing"
)

func validTestConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "chat-store",
			Version: "1.0.0",
		},
		Server: ServerConfig{
			Host:    "localhost",
			Port:    "8080",
			Timeout: 30,
		},
		Database: DatabaseConfig{
			Mongo: MongoConfig{
				URL:         "mongodb://localhost:27017",
				Database:    "chat_store",
				MaxPoolSize: 100,
				MinPoolSize: 10,
			},
		},
		Log: LogConfig{
			RotationTimeHours: 24,
			MaxAgeDays:        7,
			MaxSizeMB:         100,
		},
	}
}

// TestLoadWithTestConfig 測試直接注入配置
func TestLoadWithTestConfig(t *testing.T) {
	cfg := validTestConfig()

	if err := Load(cfg); err != nil {
		t.Fatalf("載入測試配置失敗: %v", err)
	}

	if Get() != cfg {
		t.Error("Get 應回傳注入的配置")
	}
	if GetServerAddr() != "localhost:8080" {
		t.Errorf("伺服器地址期望 localhost:8080，實際 %s", GetServerAddr())
	}
}

// TestValidateConfig 測試配置驗證規則
func TestValidateConfig(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:    "缺少應用程式名稱",
			mutate:  func(cfg *Config) { cfg.App.Name = "" },
			wantErr: "應用程式名稱",
		},
		{
			name:    "缺少伺服器端口",
			mutate:  func(cfg *Config) { cfg.Server.Port = "" },
			wantErr: "端口",
		},
		{
			name:    "超時時間為零",
			mutate:  func(cfg *Config) { cfg.Server.Timeout = 0 },
			wantErr: "超時",
		},
		{
			name:    "缺少 MongoDB URL",
			mutate:  func(cfg *Config) { cfg.Database.Mongo.URL = "" },
			wantErr: "MongoDB URL",
		},
		{
			name: "連接池大小顛倒",
			mutate: func(cfg *Config) {
				cfg.Database.Mongo.MinPoolSize = 200
				cfg.Database.Mongo.MaxPoolSize = 100
			},
			wantErr: "連接池",
		},
		{
			name:    "日誌輪轉時間為零",
			mutate:  func(cfg *Config) { cfg.Log.RotationTimeHours = 0 },
			wantErr: "輪轉",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig()
			tc.mutate(cfg)

			err := validateConfig(cfg)
			if err == nil {
				t.Fatal("期望驗證失敗，實際通過")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("錯誤訊息期望包含 %q，實際 %q", tc.wantErr, err.Error())
			}
		})
	}

	if err := validateConfig(validTestConfig()); err != nil {
		t.Errorf("有效配置不應驗證失敗: %v", err)
	}
}

// TestSetEnv 測試環境切換
func TestSetEnv(t *testing.T) {
	original := GetEnv()
	defer SetEnv(original)

	SetEnv("production")
	if GetEnv() != "production" {
		t.Errorf("環境期望 production，實際 %s", GetEnv())
	}
}
