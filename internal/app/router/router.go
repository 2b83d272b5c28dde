package router

import (
	"github.com/gin-gonic/gin"

	logohandler "logo_backend/internal/feature/logodetection/transport/handler"
	platformhandler "logo_backend/internal/platform/http/handler"
	jwtmw "logo_backend/internal/platform/jwt"
)

// NewRouter wires all routes. When jwtSecret is empty the history endpoint is public.
func NewRouter(logo *logohandler.LogoDetectionHandler, health *platformhandler.HealthHandler, jwtSecret string) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)

	// Web UI
	r.GET("/", logo.Index)

	v1 := r.Group("/v1/logo")
	v1.POST("/recognize", logo.Recognize)

	// 履歴は JWT_SECRET が設定されている場合のみ認証必須
	hist := v1.Group("/history")
	if jwtSecret != "" {
		hist.Use(jwtmw.AuthRequired(jwtSecret))
	}
	hist.GET("", logo.History)

	return r
}
