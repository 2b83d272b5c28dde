// Package gemini はGoogle Gemini APIを使用したブランド認識クライアントを提供します。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"logo_backend/internal/feature/logodetection/usecase"
	"logo_backend/internal/shared/ratelimiter"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.0-flash"
	// DefaultRequestsPerMin は無料枠に合わせた1分あたりのリクエスト上限です。
	DefaultRequestsPerMin = 15
	// cropMIMEType は切り抜き画像のMIMEタイプです。
	cropMIMEType = "image/jpeg"
)

// ErrMissingAPIKey はAPIキーが設定されていないことを示します。
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// GeminiRecognizer はGoogle Gemini APIを使用して切り抜き画像のブランド名を認識します。
type GeminiRecognizer struct {
	client  *genai.Client
	model   string
	limiter ratelimiter.Limiter
}

// GeminiRecognizerがRecognizerを実装していることをコンパイル時に検証します。
var _ usecase.Recognizer = (*GeminiRecognizer)(nil)

// NewGeminiRecognizer はAPIキーを使用してGeminiRecognizerの新しいインスタンスを生成します。
// httpClient が nil の場合はSDKのデフォルトクライアントを使用します。
func NewGeminiRecognizer(ctx context.Context, cfg Config, httpClient *http.Client) (*GeminiRecognizer, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiRecognizer{
		client:  client,
		model:   model,
		limiter: ratelimiter.NewRateLimiter(cfg.RequestsPerMin, time.Minute),
	}, nil
}

// Model は使用中のモデル名を返します。キャッシュキーの名前空間に使われます。
func (g *GeminiRecognizer) Model() string {
	return g.model
}

// Recognize はJPEG画像と指示文をGeminiへ送り、応答テキストを返します。
func (g *GeminiRecognizer) Recognize(ctx context.Context, imageJPEG []byte, instruction string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(imageJPEG, cropMIMEType),
		genai.NewPartFromText(instruction),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}

	return resp.Text(), nil
}
