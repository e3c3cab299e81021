// internal/app/notification_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lifeweeks_bot/internal/domain/blocklist"
	"lifeweeks_bot/internal/domain/lifeweeks"
	domainTelegram "lifeweeks_bot/internal/domain/telegram"
	"lifeweeks_bot/internal/domain/user"
	idb "lifeweeks_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// NotificationService defines the operations for delivering elapsed-week
// notifications. Both the per-user timers and the weekly fallback sweep go
// through NotifyUser, so the at-most-once-per-week guarantee lives in one place.
type NotificationService interface {
	// NotifyUser recomputes the user's elapsed weeks and, if a new week has
	// elapsed since the last notification, advances last_notified_week and
	// sends the message. Returns database.ErrUserNotFound when the user has
	// been deleted since scheduling, so the caller can drop its timer.
	NotifyUser(ctx context.Context, telegramID int64) error
	// RunFallbackSweep enumerates all users and notifies everyone with an
	// unannounced elapsed week. Safety net for missed per-user timers.
	RunFallbackSweep(ctx context.Context)
}

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	userRepo       user.Repository
	ledger         blocklist.Ledger
	telegramClient domainTelegram.Client
	logger         *logrus.Entry
	now            func() time.Time
}

func NewNotificationService(
	ur user.Repository,
	ledger blocklist.Ledger,
	tc domainTelegram.Client,
	logger *logrus.Entry,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		userRepo:       ur,
		ledger:         ledger,
		telegramClient: tc,
		logger:         logger,
		now:            time.Now,
	}
}

// NotifyUser applies the write-then-send discipline: last_notified_week is
// advanced before the delivery attempt, on every path. A delivery failure
// never rolls it back: the week has genuinely elapsed regardless of whether
// the message arrived, and the store's monotonic UPDATE keeps concurrent
// observers of the same transition from sending twice.
func (s *NotificationServiceImpl) NotifyUser(ctx context.Context, telegramID int64) error {
	u, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if err == idb.ErrUserNotFound {
			return err
		}
		return fmt.Errorf("failed to load user %d: %w", telegramID, err)
	}

	now := s.now()
	weeks := lifeweeks.WeeksLived(u.Birthdate, now)
	if u.LastNotifiedWeek.Valid && int64(weeks) <= u.LastNotifiedWeek.Int64 {
		return nil
	}

	if err := s.userRepo.SetLastNotifiedWeek(ctx, telegramID, weeks); err != nil {
		return fmt.Errorf("failed to advance last notified week for user %d: %w", telegramID, err)
	}

	text := fmt.Sprintf("Здравствуйте, %s. Вы прожили %s. 🎉", u.Name, lifeweeks.WeeksText(weeks, lifeweeks.CaseAccusative, false))
	err = s.telegramClient.SendMessage(u.TelegramID, text, nil)
	switch {
	case err == nil:
		s.logger.WithField("telegram_id", telegramID).WithField("week", weeks).Info("Weekly notification sent")
	case errors.Is(err, domainTelegram.ErrRecipientUnreachable):
		s.logger.WithField("telegram_id", telegramID).Warn("User has blocked the bot, recording in ledger")
		if lerr := s.ledger.Record(telegramID, now); lerr != nil {
			s.logger.WithError(lerr).WithField("telegram_id", telegramID).Error("Failed to record blocked user")
		}
	default:
		// Transient delivery failure. The week is already marked notified;
		// the next elapsed week will trigger a fresh delivery.
		s.logger.WithError(err).WithField("telegram_id", telegramID).Error("Transient delivery failure")
	}
	return nil
}

// RunFallbackSweep catches any elapsed-week transition the per-user timers
// missed (process restarts mid-week, crashed timers). One user's failure
// never aborts processing of the remaining users.
func (s *NotificationServiceImpl) RunFallbackSweep(ctx context.Context) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Fallback sweep could not list users")
		return
	}
	s.logger.WithField("users", len(users)).Info("Fallback sweep started")

	for _, u := range users {
		if err := s.NotifyUser(ctx, u.TelegramID); err != nil {
			s.logger.WithError(err).WithField("telegram_id", u.TelegramID).Error("Fallback sweep failed for user")
		}
	}
	s.logger.Info("Fallback sweep finished")
}
