package api

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/oapi-codegen/runtime"
)

// ErrInvalidLimit は limit クエリパラメータが範囲外の場合のエラーです。
var ErrInvalidLimit = errors.New("limit must be between 1 and 100")

// BindListHistoryParams はクエリ文字列から ListHistoryParams を組み立てます。
func BindListHistoryParams(query url.Values) (ListHistoryParams, error) {
	var params ListHistoryParams
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &params.Limit); err != nil {
		return params, fmt.Errorf("invalid format for parameter limit: %w", err)
	}
	if params.Limit != nil && (*params.Limit < 1 || *params.Limit > 100) {
		return params, ErrInvalidLimit
	}
	return params, nil
}
