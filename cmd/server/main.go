package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"logo_backend/internal/app/di"
	"logo_backend/internal/app/router"
	"logo_backend/internal/feature/logodetection/adapters/annotate"
	"logo_backend/internal/feature/logodetection/domain/entity"
	logohandler "logo_backend/internal/feature/logodetection/transport/handler"
	"logo_backend/internal/feature/logodetection/usecase"
	platformdb "logo_backend/internal/platform/db"
	platformhandler "logo_backend/internal/platform/http/handler"
	jwtmw "logo_backend/internal/platform/jwt"
	"logo_backend/internal/platform/logger"
	platformredis "logo_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	closer := logger.Setup(logger.LoadConfig())
	defer func() { _ = closer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db（DB_DRIVER 未設定なら履歴は無効）
	db, err := platformdb.OpenDB(platformdb.LoadConfigFromEnv())
	if err != nil {
		log.Fatalf("failed to open history database: %v", err)
	}
	if db == nil {
		slog.Info("DB_DRIVER is not set. Running without analysis history.")
	}

	// Redis
	var rdb *redisv9.Client
	if cfg := platformredis.LoadConfig(); cfg.Enabled() {
		if tmp, err := platformredis.NewRedisClient(ctx, cfg); err != nil {
			log.Println("[WARN] Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
		}
	}

	// Detector / Recognizer
	det, err := di.NewDetector(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = det.Close() }()

	rec, err := di.NewRecognizer(ctx, rdb)
	if err != nil {
		log.Fatal(err)
	}

	// Usecase
	uc := usecase.NewLogoDetectionUsecase(
		det.Detector,
		rec,
		annotate.NewAnnotator(annotate.Center),
		entity.DefaultClassTable(),
		di.NewHistoryRepository(db),
	)

	// Handler
	logoH := logohandler.NewLogoDetectionHandler(uc)
	checks := map[string]platformhandler.ReadinessCheck{}
	if det.Ready != nil {
		checks["detector"] = det.Ready
	}
	if rdb != nil {
		checks["cache"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	healthH := platformhandler.NewHealthHandler(checks)

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. /v1/logo/history is public.")
	}

	// ルータ生成
	r := router.NewRouter(logoH, healthH, secret)

	srv := &http.Server{
		Addr:              listenAddr(os.Getenv("SERVER_SHARE"), os.Getenv("PORT")),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// listenAddr はローカル専用（127.0.0.1）か外部公開（0.0.0.0）かに応じて待受アドレスを返します。
func listenAddr(share, port string) string {
	if port == "" {
		port = "8080"
	}
	host := "127.0.0.1"
	if strings.EqualFold(share, "true") || share == "1" {
		host = "0.0.0.0"
	}
	return net.JoinHostPort(host, port)
}
