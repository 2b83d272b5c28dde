package entity

import (
	"fmt"

	"logo_backend/internal/feature/logodetection/domain"
)

// ClassTable はクラスIDから表示名への固定マッピングです。起動時に一度だけ構築し、変更しません。
type ClassTable map[int]string

// DefaultClassTable はロゴ検出モデルのクラス表を返します。
func DefaultClassTable() ClassTable {
	return ClassTable{0: "logo"}
}

// Name はクラスIDに対応する表示名を返します。未定義のIDは domain.ErrUnknownClass を返します。
func (t ClassTable) Name(classID int) (string, error) {
	name, ok := t[classID]
	if !ok {
		return "", fmt.Errorf("%w: %d", domain.ErrUnknownClass, classID)
	}
	return name, nil
}
