package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/shortlink/internal/services"
)

// Стабильные тексты ошибок в ответах.
const (
	DetailLinkNotFound     = "Link not found"
	DetailLinkExpired      = "Link has expired"
	DetailForbidden        = "Not enough permissions"
	DetailInvalidURL       = "Invalid URL"
	DetailCapacityExceeded = "Short code space exhausted"
	DetailNotAuthenticated = "Not authenticated"
	DetailInternal         = "Internal server error"
	DetailInactiveUser     = "Inactive user"
)

// respondError переводит ошибку сервисного слоя в код ответа и тело {"detail": ...}.
func respondError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)

	var conflict *services.ConflictError
	switch {
	case errors.As(err, &conflict):
		ctx.AbortWithStatusJSON(http.StatusConflict, ErrorResponse{Detail: conflict.Error()})
	case errors.Is(err, services.ErrNotFound):
		ctx.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Detail: DetailLinkNotFound})
	case errors.Is(err, services.ErrExpired):
		ctx.AbortWithStatusJSON(http.StatusGone, ErrorResponse{Detail: DetailLinkExpired})
	case errors.Is(err, services.ErrInactiveUser):
		abortUnauthorized(ctx, DetailInactiveUser)
	case errors.Is(err, services.ErrUnauthorized):
		abortUnauthorized(ctx, DetailNotAuthenticated)
	case errors.Is(err, services.ErrForbidden):
		ctx.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Detail: DetailForbidden})
	case errors.Is(err, services.ErrInvalidURL):
		ctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: DetailInvalidURL})
	case errors.Is(err, services.ErrCapacityExceeded):
		ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{Detail: DetailCapacityExceeded})
	default:
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Detail: DetailInternal})
	}
}

func abortUnauthorized(ctx *gin.Context, detail string) {
	ctx.Header("WWW-Authenticate", "Basic")
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Detail: detail})
}
