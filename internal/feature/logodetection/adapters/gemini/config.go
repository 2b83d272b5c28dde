package gemini

import (
	"os"
	"strconv"
	"time"
)

// Config はGeminiブランド認識クライアントの設定を保持します。
type Config struct {
	APIKey         string        // Gemini APIキー
	Model          string        // 使用するモデル名
	RequestsPerMin int           // 1分あたりの最大リクエスト数（0以下で無制限）
	Timeout        time.Duration // HTTPリクエストのタイムアウト
	BaseURL        string        // APIのベースURL（テスト用、空ならSDKのデフォルト）
}

// LoadConfig は環境変数からGeminiの設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		APIKey:         os.Getenv("GEMINI_API_KEY"),
		Model:          os.Getenv("GEMINI_MODEL"),
		RequestsPerMin: DefaultRequestsPerMin,
		Timeout:        30 * time.Second,
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if v, err := strconv.Atoi(os.Getenv("GEMINI_RPM")); err == nil {
		cfg.RequestsPerMin = v
	}
	return cfg
}
