package logic

import (
	"context"
	"regexp"
	"time"

	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/apperr"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/dao"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/models"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/pkg"
)

var heroIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ArtifactSigner is the delegate that produces signed ownership claims.
type ArtifactSigner interface {
	Sign(ctx context.Context, heroID, owner string) (*pkg.SignedArtifact, error)
}

// NftLogic handles signed hero artifact preparation
type NftLogic struct {
	userDAO     *dao.UserDAO
	heroDAO     *dao.HeroDAO
	signer      ArtifactSigner
	signTimeout time.Duration
}

func NewNftLogic(userDAO *dao.UserDAO, heroDAO *dao.HeroDAO, signer ArtifactSigner, signTimeout time.Duration) *NftLogic {
	return &NftLogic{
		userDAO:     userDAO,
		heroDAO:     heroDAO,
		signer:      signer,
		signTimeout: signTimeout,
	}
}

// PrepareSignedHero validates the request, checks ownership and returns
// a signed artifact binding the hero to the token's wallet.
func (l *NftLogic) PrepareSignedHero(ctx context.Context, heroID, token string) (*pkg.SignedArtifact, error) {
	if !heroIDPattern.MatchString(heroID) {
		return nil, apperr.E(apperr.KindValidation, "malformed hero id")
	}

	user, err := l.userDAO.GetUserByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.E(apperr.KindUnauthenticated, "unknown token")
	}
	if !user.ExpireAt.After(time.Now()) {
		return nil, apperr.E(apperr.KindTokenExpired, "token expired")
	}

	hero, err := l.heroDAO.GetHeroByID(ctx, heroID)
	if err != nil {
		return nil, err
	}
	if hero == nil {
		return nil, apperr.E(apperr.KindNotFound, "hero not found")
	}
	if hero.OwnerAddress != user.Address {
		return nil, apperr.E(apperr.KindForbidden, "hero not owned by caller")
	}

	signCtx, cancel := context.WithTimeout(ctx, l.signTimeout)
	defer cancel()

	artifact, err := l.signer.Sign(signCtx, hero.ID, hero.OwnerAddress)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "sign hero artifact", err)
	}
	return artifact, nil
}

// ListOwnedHeroes retrieves the heroes owned by an address.
func (l *NftLogic) ListOwnedHeroes(ctx context.Context, address string) ([]models.Hero, error) {
	return l.heroDAO.ListHeroesByOwner(ctx, address)
}
