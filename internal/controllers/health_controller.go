package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthController liveness и readiness проверки.
type HealthController struct {
	conn ConnectionChecker // Проверяет соединение с базой данных и кешем
}

func NewHealthController(conn ConnectionChecker) *HealthController {
	return &HealthController{conn: conn}
}

// Health обрабатывает GET /health. Хранилище не трогает.
func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ping обрабатывает GET /ping: 200 "pong", если хранилище отвечает, иначе 500.
func (c *HealthController) Ping(ctx *gin.Context) {
	if c.conn == nil {
		ctx.String(http.StatusOK, "pong")
		return
	}
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), DefaultRequestTimeout)
	defer cancel()
	if err := c.conn.CheckConnection(pingCtx); err != nil {
		_ = ctx.Error(fmt.Errorf("ping error: %w", err))
		ctx.Status(http.StatusInternalServerError)
		return
	}
	ctx.String(http.StatusOK, "pong")
}
