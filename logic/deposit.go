package logic

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/dao"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/models"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/pkg/chainfeed"
)

// ChainFeed is the gateway event stream consumed by DepositLogic.
type ChainFeed interface {
	Subscribe(ctx context.Context, since int64) (<-chan chainfeed.Event, error)
}

// DepositLogic mirrors chain deposits and hero ownership into the store.
// Every deposit is recorded before it is credited; deposits for wallets
// without a session stay pending until SyncDeposits picks them up.
type DepositLogic struct {
	db         *gorm.DB
	userDAO    *dao.UserDAO
	heroDAO    *dao.HeroDAO
	depositDAO *dao.DepositEventDAO
	feed       ChainFeed
	log        *logrus.Entry
}

func NewDepositLogic(
	db *gorm.DB,
	userDAO *dao.UserDAO,
	heroDAO *dao.HeroDAO,
	depositDAO *dao.DepositEventDAO,
	feed ChainFeed,
) *DepositLogic {
	return &DepositLogic{
		db:         db,
		userDAO:    userDAO,
		heroDAO:    heroDAO,
		depositDAO: depositDAO,
		feed:       feed,
		log:        logrus.WithField("component", "deposits"),
	}
}

// Run credits pending deposits, then resumes the subscription from the
// last stored event and applies events until ctx is cancelled.
func (l *DepositLogic) Run(ctx context.Context) error {
	if err := l.SyncDeposits(ctx); err != nil {
		return err
	}

	since, err := l.depositDAO.GetLatestCreatedAt(ctx)
	if err != nil {
		return err
	}
	l.log.WithField("since", since).Info("starting chain feed")

	events, err := l.feed.Subscribe(ctx, since)
	if err != nil {
		return err
	}

	for ev := range events {
		if err := l.Apply(ctx, ev); err != nil {
			l.log.WithError(err).WithField("event", ev.ID).Warn("failed to apply chain event")
		}
	}
	return ctx.Err()
}

// SyncDeposits retries every stored deposit that has not been credited
// yet, e.g. deposits that arrived before the wallet's first login.
func (l *DepositLogic) SyncDeposits(ctx context.Context) error {
	events, err := l.depositDAO.GetAllDepositEvents(ctx)
	if err != nil {
		return err
	}

	for i := range events {
		ev := &events[i]
		if ev.Credited {
			continue
		}
		if err := l.creditStored(ctx, ev); err != nil {
			l.log.WithError(err).WithField("event", ev.ID).Warn("failed to credit pending deposit")
		}
	}
	return nil
}

// Apply processes a single chain event. Replayed deposits are credited
// at most once.
func (l *DepositLogic) Apply(ctx context.Context, ev chainfeed.Event) error {
	switch ev.Kind {
	case chainfeed.EventDeposit:
		return l.applyDeposit(ctx, ev)
	case chainfeed.EventHeroMint, chainfeed.EventHeroTransfer:
		return l.heroDAO.UpsertHero(ctx, ev.HeroID, ev.Owner)
	default:
		l.log.WithField("kind", ev.Kind).Debug("ignoring chain event")
		return nil
	}
}

func (l *DepositLogic) applyDeposit(ctx context.Context, ev chainfeed.Event) error {
	existing, err := l.depositDAO.GetDepositEventByID(ctx, ev.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Credited {
			return nil
		}
		return l.creditStored(ctx, existing)
	}

	record := &models.DepositEvent{
		ID:        ev.ID,
		Address:   ev.Address,
		Lamports:  ev.Lamports,
		CreatedAt: time.Unix(ev.CreatedAt, 0),
	}
	if err := l.depositDAO.SaveDepositEvent(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return l.creditStored(ctx, record)
}

// creditStored applies a recorded deposit to its wallet's balance. The
// credit and the processed mark commit in one transaction, so a failure
// of either leaves the deposit pending for the next sync. A wallet that
// is unknown or has no session token also stays pending.
func (l *DepositLogic) creditStored(ctx context.Context, ev *models.DepositEvent) error {
	credited := false
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userDAO := dao.NewUserDAO(tx)
		user, err := userDAO.GetUserByAddress(ctx, ev.Address)
		if err != nil {
			return err
		}
		if user == nil || user.Token == "" {
			return nil
		}
		if err := userDAO.UpdateAmount(ctx, user.Token, user.Amount+ev.Lamports); err != nil {
			return err
		}
		if err := dao.NewDepositEventDAO(tx).MarkCredited(ctx, ev.ID); err != nil {
			return err
		}
		credited = true
		return nil
	})
	if err != nil {
		return err
	}

	if credited {
		ev.Credited = true
		l.log.WithFields(logrus.Fields{
			"address":  ev.Address,
			"lamports": ev.Lamports,
		}).Info("credited deposit")
	} else {
		l.log.WithField("address", ev.Address).Debug("deposit held as pending")
	}
	return nil
}
