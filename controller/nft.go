package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/logic"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/middleware"
)

// NftController handles HTTP requests
type NftController struct {
	nftLogic *logic.NftLogic
}

func NewNftController(logic *logic.NftLogic) *NftController {
	return &NftController{nftLogic: logic}
}

// PrepareHero handles GET /api/nft/prepare/:heroid
func (c *NftController) PrepareHero(ctx *gin.Context) {
	heroID := ctx.Param("heroid")
	token := ctx.GetHeader(middleware.TokenHeader)

	artifact, err := c.nftLogic.PrepareSignedHero(ctx.Request.Context(), heroID, token)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, artifact)
}

// ListHeroes handles GET /api/nft/heroes
func (c *NftController) ListHeroes(ctx *gin.Context) {
	user, ok := middleware.UserFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "user not found in context"})
		return
	}

	heroes, err := c.nftLogic.ListOwnedHeroes(ctx.Request.Context(), user.Address)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, heroes)
}
