package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/logic"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/middleware"
)

// UserController handles HTTP requests
type UserController struct {
	userLogic *logic.UserLogic
}

func NewUserController(logic *logic.UserLogic) *UserController {
	return &UserController{userLogic: logic}
}

// Login handles POST /api/users/login
func (c *UserController) Login(ctx *gin.Context) {
	type Request struct {
		Address   string `json:"address" binding:"required"`
		Message   string `json:"message" binding:"required"`
		Signature string `json:"signature" binding:"required"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, expireAt, err := c.userLogic.Login(ctx.Request.Context(), req.Address, req.Message, req.Signature)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":      user,
		"token":     token,
		"expire_at": expireAt,
	})
}

// GetMe handles GET /api/users/me
func (c *UserController) GetMe(ctx *gin.Context) {
	identity, ok := middleware.UserFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "user not found in context"})
		return
	}

	// Re-read so the response carries the current balance.
	user, err := c.userLogic.GetUser(ctx.Request.Context(), identity.Address)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}
