package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/apperr"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/models"
)

// DepositEventDAO handles processed chain deposit events
type DepositEventDAO struct {
	db *gorm.DB
}

func NewDepositEventDAO(db *gorm.DB) *DepositEventDAO {
	return &DepositEventDAO{db: db}
}

func (d *DepositEventDAO) SaveDepositEvent(ctx context.Context, event *models.DepositEvent) error {
	if err := d.db.WithContext(ctx).Create(event).Error; err != nil {
		return apperr.Wrap(apperr.KindDependency, "save deposit event", err)
	}
	return nil
}

// GetDepositEventByID retrieves a deposit event. Returns nil, nil when
// no event matches.
func (d *DepositEventDAO) GetDepositEventByID(ctx context.Context, id string) (*models.DepositEvent, error) {
	var event models.DepositEvent
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.KindDependency, "query deposit event", err)
	}
	return &event, nil
}

// MarkCredited flags a deposit event as applied to a balance. Zero
// matched rows is an error, not a silent no-op.
func (d *DepositEventDAO) MarkCredited(ctx context.Context, id string) error {
	res := d.db.WithContext(ctx).Model(&models.DepositEvent{}).
		Where("id = ?", id).
		Update("credited", true)
	if res.Error != nil {
		return apperr.Wrap(apperr.KindDependency, "mark deposit credited", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.E(apperr.KindNotFound, "no deposit event with id "+id)
	}
	return nil
}

func (d *DepositEventDAO) GetAllDepositEvents(ctx context.Context) ([]models.DepositEvent, error) {
	var events []models.DepositEvent
	if err := d.db.WithContext(ctx).Find(&events).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "list deposit events", err)
	}
	return events, nil
}

// GetLatestCreatedAt retrieves the latest created_at timestamp from stored events
func (d *DepositEventDAO) GetLatestCreatedAt(ctx context.Context) (int64, error) {
	var latest models.DepositEvent
	err := d.db.WithContext(ctx).Order("created_at DESC").First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No events yet, start from the beginning
			return 0, nil
		}
		return 0, apperr.Wrap(apperr.KindDependency, "latest deposit event", err)
	}
	return latest.CreatedAt.Unix(), nil
}
