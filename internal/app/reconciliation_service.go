// internal/app/reconciliation_service.go
package app

import (
	"context"
	"errors"
	"time"

	"lifeweeks_bot/internal/domain/blocklist"
	domainTelegram "lifeweeks_bot/internal/domain/telegram"
	"lifeweeks_bot/internal/domain/user"

	"github.com/sirupsen/logrus"
)

// BlockReconciler keeps the blocked-user ledger consistent with live
// reachability, independent of delivery attempts.
type BlockReconciler interface {
	Reconcile(ctx context.Context)
}

// ReconciliationServiceImpl owns ledger cleanup: the notification paths only
// ever insert entries, this service is the sole component that removes them.
type ReconciliationServiceImpl struct {
	userRepo       user.Repository
	ledger         blocklist.Ledger
	telegramClient domainTelegram.Client
	logger         *logrus.Entry
	now            func() time.Time
}

func NewReconciliationService(
	ur user.Repository,
	ledger blocklist.Ledger,
	tc domainTelegram.Client,
	logger *logrus.Entry,
) *ReconciliationServiceImpl {
	return &ReconciliationServiceImpl{
		userRepo:       ur,
		ledger:         ledger,
		telegramClient: tc,
		logger:         logger,
		now:            time.Now,
	}
}

// Reconcile probes every registered user and converges the ledger:
// a reachable user is removed from it, an unreachable one is inserted with
// the observation timestamp, and any other probe error leaves it untouched.
// Each mutation goes through the ledger's single-writer interface, so a
// notification path recording a block mid-cycle is never clobbered.
func (s *ReconciliationServiceImpl) Reconcile(ctx context.Context) {
	blocked, err := s.ledger.Load()
	if err != nil {
		s.logger.WithError(err).Error("Reconciliation could not load blocked-user ledger")
		return
	}

	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Reconciliation could not list users")
		return
	}
	s.logger.WithField("users", len(users)).WithField("blocked", len(blocked)).Info("Reconciliation cycle started")

	for _, u := range users {
		err := s.telegramClient.Probe(u.TelegramID)
		switch {
		case err == nil:
			if _, wasBlocked := blocked[u.TelegramID]; wasBlocked {
				s.logger.WithField("telegram_id", u.TelegramID).Info("User unblocked the bot, removing from ledger")
			}
			if rerr := s.ledger.Remove(u.TelegramID); rerr != nil {
				s.logger.WithError(rerr).WithField("telegram_id", u.TelegramID).Error("Failed to remove ledger entry")
			}
		case errors.Is(err, domainTelegram.ErrRecipientUnreachable):
			if _, known := blocked[u.TelegramID]; !known {
				s.logger.WithField("telegram_id", u.TelegramID).Warn("User has blocked the bot, adding to ledger")
			}
			if rerr := s.ledger.Record(u.TelegramID, s.now()); rerr != nil {
				s.logger.WithError(rerr).WithField("telegram_id", u.TelegramID).Error("Failed to record ledger entry")
			}
		default:
			s.logger.WithError(err).WithField("telegram_id", u.TelegramID).Error("Probe failed, leaving ledger unchanged")
		}
	}
	s.logger.Info("Reconciliation cycle finished")
}
