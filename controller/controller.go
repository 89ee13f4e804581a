package controller

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/apperr"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/dao"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/middleware"
)

// respondError writes the JSON error body. Raw error detail is exposed
// in debug mode only.
func respondError(ctx *gin.Context, err error) {
	kind := apperr.KindOf(err)

	msg := "internal error"
	var e *apperr.Error
	if errors.As(err, &e) {
		msg = e.Msg
	}

	body := gin.H{"error": msg}
	if gin.Mode() == gin.DebugMode {
		body["detail"] = err.Error()
	}
	ctx.JSON(apperr.HTTPStatus(kind), body)
}

// NewRouter assembles the gin engine: CORS, request logging, the public
// login route and the guarded NFT and user routes.
func NewRouter(
	log *logrus.Logger,
	userDAO *dao.UserDAO,
	userCtrl *UserController,
	nftCtrl *NftController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.Default())

	auth := middleware.Auth(userDAO)

	r.POST("/api/users/login", userCtrl.Login)
	r.GET("/api/users/me", auth, userCtrl.GetMe)
	r.GET("/api/nft/prepare/:heroid", auth, nftCtrl.PrepareHero)
	r.GET("/api/nft/heroes", auth, nftCtrl.ListHeroes)

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
	})

	return r
}
