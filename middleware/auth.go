package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/apperr"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/dao"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/models"
)

// TokenHeader is the request header carrying the bearer token.
const TokenHeader = "token"

const userKey = "user"

// Auth validates the token header against the user store before any
// protected handler runs. Every protected route mounts this explicitly.
func Auth(userDAO *dao.UserDAO) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ctx.GetHeader(TokenHeader)
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		user, err := userDAO.GetUserByToken(ctx.Request.Context(), token)
		if err != nil {
			ctx.AbortWithStatusJSON(apperr.HTTPStatus(apperr.KindOf(err)), gin.H{"error": "user store unavailable"})
			return
		}
		if user == nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if !user.ExpireAt.After(time.Now()) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
			return
		}

		ctx.Set(userKey, user)
		ctx.Next()
	}
}

// UserFrom returns the identity attached by Auth.
func UserFrom(ctx *gin.Context) (*models.User, bool) {
	v, exists := ctx.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
