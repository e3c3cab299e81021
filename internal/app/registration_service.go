// internal/app/registration_service.go
package app

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"lifeweeks_bot/internal/domain/lifeweeks"
	"lifeweeks_bot/internal/domain/user"
	idb "lifeweeks_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// DialogState is the explicit state of a user's registration conversation.
type DialogState string

const (
	StateAwaitingName      DialogState = "awaiting_name"
	StateAwaitingBirthdate DialogState = "awaiting_birthdate"
)

// UserScheduler is what the registration flow needs from the per-user timer
// infrastructure: create (or replace) a timer on registration, drop it on reset.
type UserScheduler interface {
	ScheduleUser(u *user.User)
	CancelUser(telegramID int64)
}

type pendingDialog struct {
	State DialogState
	Name  string // captured once the name step is complete
}

// RegistrationService drives the two-step registration dialog and owns its
// per-user finite-state-machine records.
type RegistrationService struct {
	userRepo  user.Repository
	scheduler UserScheduler
	logger    *logrus.Entry
	now       func() time.Time

	mu      sync.Mutex
	dialogs map[int64]*pendingDialog
}

func NewRegistrationService(ur user.Repository, sched UserScheduler, logger *logrus.Entry) *RegistrationService {
	return &RegistrationService{
		userRepo:  ur,
		scheduler: sched,
		logger:    logger,
		now:       time.Now,
		dialogs:   make(map[int64]*pendingDialog),
	}
}

// Begin starts (or restarts) the registration dialog for a user.
func (s *RegistrationService) Begin(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialogs[telegramID] = &pendingDialog{State: StateAwaitingName}
}

// State reports the user's current dialog state, if a dialog is in progress.
func (s *RegistrationService) State(telegramID int64) (DialogState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.dialogs[telegramID]
	if !ok {
		return "", false
	}
	return d.State, true
}

// SubmitName validates the entered display name and advances the dialog to
// the birthdate step.
func (s *RegistrationService) SubmitName(telegramID int64, text string) (string, error) {
	name, err := user.ValidateName(text)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.dialogs[telegramID]
	if !ok || d.State != StateAwaitingName {
		return "", fmt.Errorf("no name step in progress for user %d", telegramID)
	}
	d.Name = name
	d.State = StateAwaitingBirthdate
	return name, nil
}

// SubmitBirthdate validates the entered birthdate, persists the user, creates
// the weekly notification timer, and closes the dialog. Returns the stored
// user and the weeks lived at registration time.
func (s *RegistrationService) SubmitBirthdate(ctx context.Context, telegramID int64, username, text string) (*user.User, int, error) {
	now := s.now()
	birthdate, err := user.ParseBirthdate(text, now)
	if err != nil {
		return nil, 0, err
	}

	s.mu.Lock()
	d, ok := s.dialogs[telegramID]
	if !ok || d.State != StateAwaitingBirthdate {
		s.mu.Unlock()
		return nil, 0, fmt.Errorf("no birthdate step in progress for user %d", telegramID)
	}
	name := d.Name
	s.mu.Unlock()

	newUser := &user.User{
		TelegramID: telegramID,
		Name:       name,
		Birthdate:  birthdate,
	}
	if username != "" {
		newUser.Username = sql.NullString{String: username, Valid: true}
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if err == idb.ErrDuplicateTelegramID {
			// A record survived from an earlier registration; replace it.
			if derr := s.userRepo.Delete(ctx, telegramID); derr != nil {
				return nil, 0, fmt.Errorf("failed to replace existing user %d: %w", telegramID, derr)
			}
			if cerr := s.userRepo.Create(ctx, newUser); cerr != nil {
				return nil, 0, fmt.Errorf("failed to re-create user %d: %w", telegramID, cerr)
			}
		} else {
			return nil, 0, fmt.Errorf("failed to create user %d: %w", telegramID, err)
		}
	}

	s.mu.Lock()
	delete(s.dialogs, telegramID)
	s.mu.Unlock()

	// Cancel-and-replace: ScheduleUser drops any timer left from a previous
	// registration before creating the new one.
	s.scheduler.ScheduleUser(newUser)
	s.logger.WithField("telegram_id", telegramID).WithField("weekday", newUser.NotificationWeekday().String()).Info("User registered and scheduled")

	return newUser, lifeweeks.WeeksLived(birthdate, now), nil
}

// Reset deletes the user's record, cancels their timer, and restarts the
// dialog from the name step. Used by the "rewrite my data" flow.
func (s *RegistrationService) Reset(ctx context.Context, telegramID int64) error {
	if err := s.userRepo.Delete(ctx, telegramID); err != nil && err != idb.ErrUserNotFound {
		return fmt.Errorf("failed to delete user %d: %w", telegramID, err)
	}
	s.scheduler.CancelUser(telegramID)
	s.Begin(telegramID)
	return nil
}
