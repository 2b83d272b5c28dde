package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"logo_backend/internal/feature/weights/adapters/gdrive"
	"logo_backend/internal/feature/weights/usecase"
	infrahttp "logo_backend/internal/platform/http"
	"logo_backend/internal/platform/logger"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}
	closer := logger.Setup(logger.LoadConfig())
	defer func() { _ = closer.Close() }()

	remoteID := envOr("WEIGHTS_FILE_ID", usecase.DefaultRemoteID)
	localPath := envOr("WEIGHTS_PATH", usecase.DefaultLocalPath)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	dl := gdrive.NewDownloader(infrahttp.NewHTTPClient(0), "")
	uc := usecase.NewWeightsUsecase(dl)

	path, err := uc.EnsureWeights(ctx, remoteID, localPath)
	if err != nil {
		log.Fatal(err)
	}
	log.Println("weights ready:", path)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
