package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/apperr"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/models"
)

// HeroDAO handles hero ownership rows mirrored from the chain feed
type HeroDAO struct {
	db *gorm.DB
}

func NewHeroDAO(db *gorm.DB) *HeroDAO {
	return &HeroDAO{db: db}
}

// GetHeroByID retrieves a hero by asset ID. Returns nil, nil when no
// hero matches.
func (d *HeroDAO) GetHeroByID(ctx context.Context, heroID string) (*models.Hero, error) {
	var hero models.Hero
	err := d.db.WithContext(ctx).Where("id = ?", heroID).First(&hero).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.KindDependency, "query hero", err)
	}
	return &hero, nil
}

// UpsertHero records a hero, replacing the owner on conflict. Mint and
// transfer events both land here.
func (d *HeroDAO) UpsertHero(ctx context.Context, heroID, ownerAddress string) error {
	hero := &models.Hero{ID: heroID, OwnerAddress: ownerAddress}
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner_address", "updated_at"}),
	}).Create(hero).Error
	if err != nil {
		return apperr.Wrap(apperr.KindDependency, "upsert hero", err)
	}
	return nil
}

// ListHeroesByOwner retrieves all heroes owned by an address.
func (d *HeroDAO) ListHeroesByOwner(ctx context.Context, ownerAddress string) ([]models.Hero, error) {
	var heroes []models.Hero
	err := d.db.WithContext(ctx).
		Where("owner_address = ?", ownerAddress).
		Order("id ASC").
		Find(&heroes).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "list heroes", err)
	}
	return heroes, nil
}
