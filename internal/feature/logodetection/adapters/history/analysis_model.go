// Package history はGORMを使用した解析履歴リポジトリを提供します。
package history

import (
	"time"

	"logo_backend/internal/feature/logodetection/domain/entity"
)

// AnalysisModel は analyses テーブルの行を表すGORMモデルです。
type AnalysisModel struct {
	ID             string    `gorm:"primaryKey;size:36"`
	Threshold      float64   `gorm:"not null"`
	DetectionCount int       `gorm:"not null"`
	Brands         []string  `gorm:"serializer:json;type:text"`
	CreatedAt      time.Time `gorm:"index"`
}

// TableName はGORMが使用するテーブル名を返します。
func (AnalysisModel) TableName() string {
	return "analyses"
}

func toModel(a *entity.Analysis) AnalysisModel {
	return AnalysisModel{
		ID:             a.ID,
		Threshold:      a.Threshold,
		DetectionCount: len(a.Items),
		Brands:         a.Brands(),
		CreatedAt:      a.CreatedAt,
	}
}

func (m AnalysisModel) toEntity() entity.AnalysisRecord {
	var brands []string
	if len(m.Brands) > 0 {
		brands = m.Brands
	}
	return entity.AnalysisRecord{
		ID:             m.ID,
		Threshold:      m.Threshold,
		DetectionCount: m.DetectionCount,
		Brands:         brands,
		CreatedAt:      m.CreatedAt,
	}
}
