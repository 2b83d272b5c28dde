package history

import (
	"context"

	"gorm.io/gorm"

	"logo_backend/internal/feature/logodetection/domain/entity"
	"logo_backend/internal/feature/logodetection/usecase"
)

// historyGorm はHistoryRepositoryインターフェースのGORM実装です。
type historyGorm struct {
	db *gorm.DB
}

var _ usecase.HistoryRepository = (*historyGorm)(nil)

// NewHistoryRepository は指定されたDB接続でhistoryGormリポジトリの新しいインスタンスを生成します。
func NewHistoryRepository(db *gorm.DB) *historyGorm {
	return &historyGorm{db: db}
}

// Save は解析結果の要約を1行保存します。
func (r *historyGorm) Save(ctx context.Context, analysis *entity.Analysis) error {
	m := toModel(analysis)
	return r.db.WithContext(ctx).Create(&m).Error
}

// ListRecent は新しい順に最大 limit 件の履歴を返します。
func (r *historyGorm) ListRecent(ctx context.Context, limit int) ([]entity.AnalysisRecord, error) {
	var rows []AnalysisModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entity.AnalysisRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}
