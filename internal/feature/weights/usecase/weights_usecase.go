// Package usecase は学習済み重みファイルの取得処理を実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"logo_backend/internal/feature/weights/domain"
)

const (
	// DefaultRemoteID は既定の重みファイルのGoogle DriveファイルIDです。
	DefaultRemoteID = "1ksMXoPxj5QFrcsyfMKPXDtpQUxzfFVBh"
	// DefaultLocalPath は既定の保存先です。
	DefaultLocalPath = "weights/checkpoint_best_regular.pth"
)

// Downloader はリモートの成果物をローカルファイルへ転送するインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Downloader interface {
	Download(ctx context.Context, remoteID, dst string) error
}

// WeightsUsecase は重みファイルの取得と存在確認を行います。
type WeightsUsecase struct {
	downloader Downloader
}

// NewWeightsUsecase はWeightsUsecaseの新しいインスタンスを生成します。
func NewWeightsUsecase(d Downloader) *WeightsUsecase {
	return &WeightsUsecase{downloader: d}
}

// EnsureWeights は remoteID の成果物を localPath に取得し、そのパスを返します。
// 保存先ディレクトリが存在しない場合は作成します。整合性の検証はファイルの存在確認のみです。
func (u *WeightsUsecase) EnsureWeights(ctx context.Context, remoteID, localPath string) (string, error) {
	if dir := filepath.Dir(localPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create weights directory %s: %w", dir, err)
		}
	}

	slog.Info("重みファイルをダウンロード", "remote_id", remoteID, "path", localPath)
	if err := u.downloader.Download(ctx, remoteID, localPath); err != nil {
		slog.Error("重みファイルのダウンロードに失敗", "error", err, "remote_id", remoteID)
		return "", fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}

	info, err := os.Stat(localPath)
	if err != nil || info.IsDir() {
		slog.Error("重みファイルが見つかりません", "path", localPath)
		return "", fmt.Errorf("%w: %s", domain.ErrWeightsMissing, localPath)
	}

	slog.Info("重みファイルのダウンロードが完了", "path", localPath, "bytes", info.Size())
	return localPath, nil
}
