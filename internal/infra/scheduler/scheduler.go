package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lifeweeks_bot/internal/app" // For NotificationService / BlockReconciler interfaces
	"lifeweeks_bot/internal/domain/user"
	idb "lifeweeks_bot/internal/infra/database" // For ErrUserNotFound

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	fallbackSweepSpec      = "@every 168h" // weekly, anchored to process start
	reconciliationSpec     = "@every 24h"  // daily, anchored to process start
	notifyJobTimeout       = 1 * time.Minute
	backgroundCycleTimeout = 10 * time.Minute
)

// NotificationScheduler owns all recurring work: one cron entry per
// registered user firing at notifyHour:00 on the weekday of their birthdate,
// plus the weekly fallback sweep and the daily ledger reconciliation.
type NotificationScheduler struct {
	cronEngine   *cron.Cron
	notifService app.NotificationService
	reconciler   app.BlockReconciler
	userRepo     user.Repository
	logger       *logrus.Entry
	notifyHour   int

	mu      sync.Mutex
	entries map[int64]cron.EntryID
}

func NewNotificationScheduler(
	notifService app.NotificationService,
	reconciler app.BlockReconciler,
	userRepo user.Repository,
	logger *logrus.Entry,
	notifyHour int,
) *NotificationScheduler {
	return &NotificationScheduler{
		cronEngine:   cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		notifService: notifService,
		reconciler:   reconciler,
		userRepo:     userRepo,
		logger:       logger,
		notifyHour:   notifyHour,
		entries:      make(map[int64]cron.EntryID),
	}
}

// ScheduleUser creates the user's weekly timer. An existing timer for the
// same user is cancelled first, so re-registration never leaves two timers
// firing for one user.
func (s *NotificationScheduler) ScheduleUser(u *user.User) {
	spec := fmt.Sprintf("0 %d * * %d", s.notifyHour, int(u.NotificationWeekday()))
	telegramID := u.TelegramID

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[telegramID]; ok {
		s.cronEngine.Remove(old)
		delete(s.entries, telegramID)
		s.logger.WithField("telegram_id", telegramID).Info("Replaced existing weekly timer")
	}

	entryID, err := s.cronEngine.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyJobTimeout)
		defer cancel()

		err := s.notifService.NotifyUser(ctx, telegramID)
		if err == nil {
			return
		}
		if errors.Is(err, idb.ErrUserNotFound) {
			// User was deleted after scheduling; drop the orphaned timer.
			s.logger.WithField("telegram_id", telegramID).Info("User no longer exists, cancelling weekly timer")
			s.CancelUser(telegramID)
			return
		}
		s.logger.WithError(err).WithField("telegram_id", telegramID).Error("Weekly notification failed")
	})
	if err != nil {
		s.logger.WithError(err).WithField("telegram_id", telegramID).Error("Could not add weekly timer")
		return
	}
	s.entries[telegramID] = entryID
	s.logger.WithField("telegram_id", telegramID).WithField("cron_spec", spec).Info("Weekly timer scheduled")
}

// CancelUser removes the user's weekly timer, if one exists.
func (s *NotificationScheduler) CancelUser(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entryID, ok := s.entries[telegramID]; ok {
		s.cronEngine.Remove(entryID)
		delete(s.entries, telegramID)
		s.logger.WithField("telegram_id", telegramID).Info("Weekly timer cancelled")
	}
}

// Bootstrap re-creates the weekly timer for every stored user. Timers live in
// process memory only, so this runs once at startup.
func (s *NotificationScheduler) Bootstrap(ctx context.Context) error {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users for timer bootstrap: %w", err)
	}
	for _, u := range users {
		s.ScheduleUser(u)
	}
	s.logger.WithField("users", len(users)).Info("Weekly timers bootstrapped")
	return nil
}

func (s *NotificationScheduler) Start() {
	s.logger.Info("Starting notification scheduler...")

	_, err := s.cronEngine.AddFunc(fallbackSweepSpec, func() {
		s.logger.Info("Cron job triggered for weekly fallback sweep")
		ctx, cancel := context.WithTimeout(context.Background(), backgroundCycleTimeout)
		defer cancel()
		s.notifService.RunFallbackSweep(ctx)
	})
	if err != nil {
		s.logger.WithError(err).Fatal("Could not add fallback sweep cron job")
	}

	_, err = s.cronEngine.AddFunc(reconciliationSpec, func() {
		s.logger.Info("Cron job triggered for daily ledger reconciliation")
		ctx, cancel := context.WithTimeout(context.Background(), backgroundCycleTimeout)
		defer cancel()
		s.reconciler.Reconcile(ctx)
	})
	if err != nil {
		s.logger.WithError(err).Fatal("Could not add reconciliation cron job")
	}

	s.cronEngine.Start()

	// @every intervals first fire after one full period; run the initial
	// sweep and reconciliation now so a restart never loses a week.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundCycleTimeout)
		defer cancel()
		s.notifService.RunFallbackSweep(ctx)
	}()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundCycleTimeout)
		defer cancel()
		s.reconciler.Reconcile(ctx)
	}()

	s.logger.Info("Notification scheduler started with jobs")
}

func (s *NotificationScheduler) Stop() {
	s.logger.Info("Stopping notification scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Notification scheduler gracefully stopped")
}
