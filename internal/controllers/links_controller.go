package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/shortlink/internal/controllers/middlewares"
	"github.com/fsdevblog/shortlink/internal/models"
	"github.com/fsdevblog/shortlink/internal/services"
)

// LinksController обрабатывает создание, переход, просмотр и удаление ссылок.
type LinksController struct {
	links LinkStore
}

func NewLinksController(links LinkStore) *LinksController {
	return &LinksController{links: links}
}

// Shorten обрабатывает POST /shorten?original_url=<url>. Требует аутентификации.
// Отвечает 201 и ссылкой, в том числе когда ссылка на этот адрес уже существовала.
func (l *LinksController) Shorten(ctx *gin.Context) {
	user, ok := middlewares.CurrentUser(ctx)
	if !ok {
		respondError(ctx, services.ErrUnauthorized)
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), DefaultRequestTimeout)
	defer cancel()

	link, err := l.links.CreateOrGet(reqCtx, ctx.Query("original_url"), user)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, link)
}

// Redirect обрабатывает GET /{short_url}: 301 на оригинальный адрес, 404 если ссылки нет,
// 410 если срок жизни истек (ссылка при этом удаляется).
func (l *LinksController) Redirect(ctx *gin.Context) {
	shortURL := ctx.Param("shortURL")
	if len(shortURL) != models.ShortURLLength {
		respondError(ctx, services.ErrNotFound)
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), DefaultRequestTimeout)
	defer cancel()

	link, err := l.links.Resolve(reqCtx, shortURL)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Redirect(http.StatusMovedPermanently, link.OriginalURL)
}

// Details обрабатывает GET /details/{short_url}.
func (l *LinksController) Details(ctx *gin.Context) {
	shortURL := ctx.Param("shortURL")
	if len(shortURL) != models.ShortURLLength {
		respondError(ctx, services.ErrNotFound)
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), DefaultRequestTimeout)
	defer cancel()

	link, err := l.links.GetDetails(reqCtx, shortURL)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, link)
}

// Delete обрабатывает DELETE /{short_url}. Требует аутентификации.
// Отвечает {"<short_url>": "deleted"}.
func (l *LinksController) Delete(ctx *gin.Context) {
	user, ok := middlewares.CurrentUser(ctx)
	if !ok {
		respondError(ctx, services.ErrUnauthorized)
		return
	}

	shortURL := ctx.Param("shortURL")
	if len(shortURL) != models.ShortURLLength {
		respondError(ctx, services.ErrNotFound)
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), DefaultRequestTimeout)
	defer cancel()

	if err := l.links.Delete(reqCtx, shortURL, user); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{shortURL: "deleted"})
}
