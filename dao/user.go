package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/apperr"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/models"
)

// UserDAO handles user-related database operations. It is the only
// component that touches the users table.
type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

// CreateUser persists a new user. Address is required; a duplicate
// address surfaces as a validation error.
func (d *UserDAO) CreateUser(ctx context.Context, user *models.User) error {
	if user.Address == "" {
		return apperr.E(apperr.KindValidation, "address is required")
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := d.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Wrap(apperr.KindValidation, "user already exists", err)
		}
		return apperr.Wrap(apperr.KindDependency, "create user", err)
	}
	return nil
}

// GetUserByAddress retrieves a user by wallet address. Returns nil, nil
// when no user matches.
func (d *UserDAO) GetUserByAddress(ctx context.Context, address string) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).Where("address = ?", address).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.KindDependency, "query user by address", err)
	}
	return &user, nil
}

// GetUserByToken retrieves a user by bearer token. Returns nil, nil
// when no user matches.
func (d *UserDAO) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).Where("token = ?", token).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.KindDependency, "query user by token", err)
	}
	return &user, nil
}

// ListAllUsers retrieves every user. No pagination; callers needing
// bounded results must page outside this contract.
func (d *UserDAO) ListAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := d.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "list users", err)
	}
	return users, nil
}

// UpdateToken replaces the token and expiry for the user with the given
// address. Zero matched rows is an error, not a silent no-op.
func (d *UserDAO) UpdateToken(ctx context.Context, address, token string, expireAt time.Time) error {
	res := d.db.WithContext(ctx).Model(&models.User{}).
		Where("address = ?", address).
		Updates(map[string]interface{}{
			"token":     token,
			"expire_at": expireAt,
		})
	if res.Error != nil {
		return apperr.Wrap(apperr.KindDependency, "update token", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.E(apperr.KindNotFound, "no user with address "+address)
	}
	return nil
}

// UpdateAmount replaces the balance of the user holding the given token.
// Zero matched rows is an error, not a silent no-op.
func (d *UserDAO) UpdateAmount(ctx context.Context, token string, newAmount uint64) error {
	res := d.db.WithContext(ctx).Model(&models.User{}).
		Where("token = ?", token).
		Update("amount", newAmount)
	if res.Error != nil {
		return apperr.Wrap(apperr.KindDependency, "update amount", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.E(apperr.KindNotFound, "no user with matching token")
	}
	return nil
}
