// Package domain はweightsフィーチャーのドメインエラーを定義します。
package domain

import "errors"

var (
	// ErrDownloadFailed はリモートからの取得に失敗したことを示します。
	ErrDownloadFailed = errors.New("weights download failed")

	// ErrWeightsMissing は取得処理後もローカルファイルが存在しないことを示します。
	ErrWeightsMissing = errors.New("weights file missing after download")
)
