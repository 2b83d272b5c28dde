package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

// mockRecognizer はテスト用のRecognizerモック実装です。
type mockRecognizer struct {
	recognizeFn func(ctx context.Context, imageJPEG []byte, instruction string) (string, error)
	calls       int
}

// Recognize はモックのRecognize関数を呼び出します。
func (m *mockRecognizer) Recognize(ctx context.Context, imageJPEG []byte, instruction string) (string, error) {
	m.calls++
	if m.recognizeFn != nil {
		return m.recognizeFn(ctx, imageJPEG, instruction)
	}
	return "", nil
}

var (
	testCrop   = []byte{0xff, 0xd8, 0xff, 0xe0, 0x01}
	testPrompt = "return only the brand"
)

// TestNewCachingRecognizer_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingRecognizer_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{
			name:              "default values when zero/empty",
			expectedTTL:       24 * time.Hour,
			expectedNamespace: "brands",
		},
		{
			name:              "negative ttl uses default",
			ttl:               -1 * time.Minute,
			expectedTTL:       24 * time.Hour,
			expectedNamespace: "brands",
		},
		{
			name:              "custom values preserved and escaped",
			ttl:               10 * time.Minute,
			namespace:         "brands:gemini 2.0",
			expectedTTL:       10 * time.Minute,
			expectedNamespace: "brands:gemini_2.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewCachingRecognizer(nil, tt.ttl, &mockRecognizer{}, tt.namespace)

			if c.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, c.ttl)
			}
			if c.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, c.namespace)
			}
		})
	}
}

// TestCachingRecognizer_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingRecognizer_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockRecognizer{recognizeFn: func(ctx context.Context, imageJPEG []byte, instruction string) (string, error) {
		return "Nike", nil
	}}
	c := NewCachingRecognizer(nil, time.Hour, inner, "brands")

	got, err := c.Recognize(context.Background(), testCrop, testPrompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Nike" || inner.calls != 1 {
		t.Errorf("expected Nike from inner recognizer, got %q (calls=%d)", got, inner.calls)
	}
}

// TestCachingRecognizer_CacheHit はキャッシュヒット時に内部の認識器を呼ばないことを検証します。
func TestCachingRecognizer_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := &mockRecognizer{}
	c := NewCachingRecognizer(rdb, time.Hour, inner, "brands")
	key := c.cacheKey(testCrop, testPrompt)

	mock.ExpectGet(key).SetVal("Adidas")

	got, err := c.Recognize(context.Background(), testCrop, testPrompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Adidas" {
		t.Errorf("expected cached Adidas, got %q", got)
	}
	if inner.calls != 0 {
		t.Errorf("inner recognizer should not be called on cache hit, got %d calls", inner.calls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet redis expectations: %v", err)
	}
}

// TestCachingRecognizer_CacheMiss はキャッシュミス時に結果を保存することを検証します。
func TestCachingRecognizer_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := &mockRecognizer{recognizeFn: func(ctx context.Context, imageJPEG []byte, instruction string) (string, error) {
		return "Puma", nil
	}}
	c := NewCachingRecognizer(rdb, time.Hour, inner, "brands")
	key := c.cacheKey(testCrop, testPrompt)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, "Puma", time.Hour).SetVal("OK")

	got, err := c.Recognize(context.Background(), testCrop, testPrompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Puma" || inner.calls != 1 {
		t.Errorf("expected Puma from inner recognizer, got %q (calls=%d)", got, inner.calls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet redis expectations: %v", err)
	}
}

// TestCachingRecognizer_ErrorNotCached は認識失敗時にキャッシュへ書き込まないことを検証します。
func TestCachingRecognizer_ErrorNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	errAPI := errors.New("quota exceeded")
	inner := &mockRecognizer{recognizeFn: func(ctx context.Context, imageJPEG []byte, instruction string) (string, error) {
		return "", errAPI
	}}
	c := NewCachingRecognizer(rdb, time.Hour, inner, "brands")
	key := c.cacheKey(testCrop, testPrompt)

	mock.ExpectGet(key).RedisNil()

	_, err := c.Recognize(context.Background(), testCrop, testPrompt)
	if !errors.Is(err, errAPI) {
		t.Fatalf("expected %v, got %v", errAPI, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet redis expectations: %v", err)
	}
}

// TestCachingRecognizer_RedisDown はRedis障害時も認識結果を返すことを検証します。
func TestCachingRecognizer_RedisDown(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := &mockRecognizer{recognizeFn: func(ctx context.Context, imageJPEG []byte, instruction string) (string, error) {
		return "Nike", nil
	}}
	c := NewCachingRecognizer(rdb, time.Hour, inner, "brands")
	key := c.cacheKey(testCrop, testPrompt)

	mock.ExpectGet(key).SetErr(errors.New("connection refused"))
	mock.ExpectSet(key, "Nike", time.Hour).SetErr(errors.New("connection refused"))

	got, err := c.Recognize(context.Background(), testCrop, testPrompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Nike" {
		t.Errorf("expected Nike, got %q", got)
	}
}

// TestCachingRecognizer_CacheKey はキャッシュキーが入力ごとに決定的かつ異なることを検証します。
func TestCachingRecognizer_CacheKey(t *testing.T) {
	t.Parallel()

	c := NewCachingRecognizer(nil, 0, &mockRecognizer{}, "brands:gemini-2.0-flash")

	k1 := c.cacheKey(testCrop, testPrompt)
	k2 := c.cacheKey(testCrop, testPrompt)
	k3 := c.cacheKey([]byte{0x00}, testPrompt)
	k4 := c.cacheKey(testCrop, "another prompt")

	if k1 != k2 {
		t.Errorf("cache key must be deterministic: %q != %q", k1, k2)
	}
	if k1 == k3 || k1 == k4 {
		t.Errorf("cache key must depend on crop and instruction")
	}
	if !strings.HasPrefix(k1, "brands:gemini-2.0-flash:") || len(k1) != len("brands:gemini-2.0-flash:")+64 {
		t.Errorf("unexpected key format %q", k1)
	}
}
