// Package rfdetr はRF-DETR推論サービスを呼び出す検出器を提供します。
package rfdetr

import (
	"os"
	"time"
)

// Config はRF-DETR推論サービスクライアントの設定を保持します。
type Config struct {
	BaseURL string        // 推論サービスのベースURL（例: "http://localhost:5000"）
	Timeout time.Duration // HTTPリクエストのタイムアウト
}

// LoadConfig は環境変数からRF-DETRの設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		BaseURL: os.Getenv("RFDETR_URL"),
		Timeout: 60 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:5000"
	}
	if d, err := time.ParseDuration(os.Getenv("RFDETR_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	return cfg
}
