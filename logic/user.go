package logic

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"

	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/apperr"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/dao"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/models"
)

// UserLogic handles user-related business logic
type UserLogic struct {
	userDAO  *dao.UserDAO
	secret   []byte
	tokenTTL time.Duration
}

func NewUserLogic(userDAO *dao.UserDAO, secret string, tokenTTL time.Duration) *UserLogic {
	return &UserLogic{
		userDAO:  userDAO,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// GetUser retrieves user info by wallet address.
func (l *UserLogic) GetUser(ctx context.Context, address string) (*models.User, error) {
	user, err := l.userDAO.GetUserByAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.E(apperr.KindNotFound, "user not found")
	}
	return user, nil
}

func (l *UserLogic) verifySignature(address, message, signature string) (bool, error) {
	pubKeyBytes, err := base58.Decode(address)
	if err != nil {
		return false, err
	}
	if len(pubKeyBytes) != ed25519.PublicKeySize {
		return false, fmt.Errorf("ed25519: bad public key length: %d", len(pubKeyBytes))
	}

	sigBytes, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false, err
	}

	return ed25519.Verify(pubKeyBytes, []byte(message), sigBytes), nil
}

func (l *UserLogic) generateToken(address string) (string, time.Time, error) {
	expireAt := time.Now().Add(l.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"address": address,
		"exp":     expireAt.Unix(),
	})
	tokenString, err := token.SignedString(l.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expireAt, nil
}

// Login verifies a wallet signature and rotates the user's bearer token.
// A first valid login creates the user record.
func (l *UserLogic) Login(ctx context.Context, address, message, signature string) (*models.User, string, time.Time, error) {
	isValid, err := l.verifySignature(address, message, signature)
	if err != nil || !isValid {
		return nil, "", time.Time{}, apperr.E(apperr.KindUnauthenticated, "invalid signature")
	}

	user, err := l.userDAO.GetUserByAddress(ctx, address)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		user = &models.User{Address: address}
		if err := l.userDAO.CreateUser(ctx, user); err != nil {
			return nil, "", time.Time{}, err
		}
	}

	token, expireAt, err := l.generateToken(address)
	if err != nil {
		return nil, "", time.Time{}, apperr.Wrap(apperr.KindDependency, "mint token", err)
	}

	// Rotation: the previous token stops resolving once this commits.
	if err := l.userDAO.UpdateToken(ctx, address, token, expireAt); err != nil {
		return nil, "", time.Time{}, err
	}
	user.Token = token
	user.ExpireAt = expireAt

	return user, token, expireAt, nil
}
