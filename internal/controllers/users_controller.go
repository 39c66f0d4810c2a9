package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/shortlink/internal/controllers/middlewares"
	"github.com/fsdevblog/shortlink/internal/services"
)

type UsersController struct {
	users UserRegistrar
}

func NewUsersController(users UserRegistrar) *UsersController {
	return &UsersController{users: users}
}

type registerRequest struct {
	Username string `json:"username"  binding:"required,max=128"`
	Email    string `json:"email"     binding:"required,email,max=256"`
	Passwd   string `json:"passwd"    binding:"required,max=72"`
	FullName string `json:"full_name" binding:"max=256"`
}

type registerResponse struct {
	Status string `json:"status"`
	UserID string `json:"user_id"`
}

// Register обрабатывает POST /users/add.
//
// Ответы:
//   - 201 {"status": "created", "user_id": "<uuid>"}
//   - 409 если username или email заняты
//   - 422 если тело невалидно
func (u *UsersController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		_ = ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: err.Error()})
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), DefaultRequestTimeout)
	defer cancel()

	user, err := u.users.Register(reqCtx, services.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Passwd,
		FullName: req.FullName,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, registerResponse{Status: "created", UserID: user.ID.String()})
}

// Me обрабатывает GET /users/me и возвращает текущего пользователя.
func (u *UsersController) Me(ctx *gin.Context) {
	user, ok := middlewares.CurrentUser(ctx)
	if !ok {
		respondError(ctx, services.ErrUnauthorized)
		return
	}
	ctx.JSON(http.StatusOK, user)
}
