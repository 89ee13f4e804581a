package logic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/apperr"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/dao"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/models"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/pkg"
)

type stubSigner struct {
	err   error
	calls int
}

func (s *stubSigner) Sign(ctx context.Context, heroID, owner string) (*pkg.SignedArtifact, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &pkg.SignedArtifact{
		Payload:   pkg.ArtifactPayload{HeroID: heroID, Owner: owner},
		Signature: "sig",
		SignerKey: "key",
	}, nil
}

func setupNft(t *testing.T) (*dao.UserDAO, *dao.HeroDAO, *stubSigner, *NftLogic) {
	t.Helper()
	db := setupTestDB(t)
	userDAO := dao.NewUserDAO(db)
	heroDAO := dao.NewHeroDAO(db)
	signer := &stubSigner{}
	l := NewNftLogic(userDAO, heroDAO, signer, time.Second)
	return userDAO, heroDAO, signer, l
}

func TestNftLogic_PrepareSignedHero(t *testing.T) {
	userDAO, heroDAO, signer, l := setupNft(t)
	ctx := context.Background()

	require.NoError(t, userDAO.CreateUser(ctx, &models.User{
		Address:  "0xABC",
		Token:    "t1",
		ExpireAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, heroDAO.UpsertHero(ctx, "hero-42", "0xABC"))
	require.NoError(t, heroDAO.UpsertHero(ctx, "hero-99", "0xDEF"))

	t.Run("success", func(t *testing.T) {
		artifact, err := l.PrepareSignedHero(ctx, "hero-42", "t1")
		require.NoError(t, err)
		assert.Equal(t, "hero-42", artifact.Payload.HeroID)
		assert.Equal(t, "0xABC", artifact.Payload.Owner)
	})

	t.Run("malformed hero id", func(t *testing.T) {
		before := signer.calls
		_, err := l.PrepareSignedHero(ctx, "hero/42", "t1")
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, before, signer.calls, "no delegate call on invalid input")
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := l.PrepareSignedHero(ctx, "hero-42", "nope")
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	})

	t.Run("expired token", func(t *testing.T) {
		require.NoError(t, userDAO.CreateUser(ctx, &models.User{
			Address:  "0xOLD",
			Token:    "stale",
			ExpireAt: time.Now().Add(-time.Minute),
		}))
		_, err := l.PrepareSignedHero(ctx, "hero-42", "stale")
		require.Error(t, err)
		assert.Equal(t, apperr.KindTokenExpired, apperr.KindOf(err))
	})

	t.Run("hero not found", func(t *testing.T) {
		_, err := l.PrepareSignedHero(ctx, "hero-404", "t1")
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("hero owned by someone else", func(t *testing.T) {
		before := signer.calls
		_, err := l.PrepareSignedHero(ctx, "hero-99", "t1")
		require.Error(t, err)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
		assert.Equal(t, before, signer.calls, "no delegate call for foreign heroes")
	})

	t.Run("signer failure is a dependency error", func(t *testing.T) {
		signer.err = errors.New("hsm offline")
		defer func() { signer.err = nil }()

		_, err := l.PrepareSignedHero(ctx, "hero-42", "t1")
		require.Error(t, err)
		assert.Equal(t, apperr.KindDependency, apperr.KindOf(err))
	})
}

func TestNftLogic_Idempotence(t *testing.T) {
	db := setupTestDB(t)
	userDAO := dao.NewUserDAO(db)
	heroDAO := dao.NewHeroDAO(db)
	// base58: 32 leading-zero bytes encode as 32 '1' characters
	signer, err := pkg.NewHeroSigner("11111111111111111111111111111111", 24*time.Hour)
	require.NoError(t, err)
	l := NewNftLogic(userDAO, heroDAO, signer, time.Second)
	ctx := context.Background()

	require.NoError(t, userDAO.CreateUser(ctx, &models.User{
		Address:  "0xABC",
		Token:    "t1",
		ExpireAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, heroDAO.UpsertHero(ctx, "hero-42", "0xABC"))

	first, err := l.PrepareSignedHero(ctx, "hero-42", "t1")
	require.NoError(t, err)
	second, err := l.PrepareSignedHero(ctx, "hero-42", "t1")
	require.NoError(t, err)
	assert.Equal(t, first, second, "repeat calls within the validity window are identical")
}
