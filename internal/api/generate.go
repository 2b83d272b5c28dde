// Package api はHTTP APIのリクエスト・レスポンス型を提供します。
// 型定義は openapi.yaml から生成されます。
package api

//go:generate go tool oapi-codegen -config oapi-codegen.yaml openapi.yaml
