package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lifeweeks_bot/internal/domain/user"
)

// fakeScheduler records timer lifecycle calls.
type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []int64
	cancelled []int64
}

func (f *fakeScheduler) ScheduleUser(u *user.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, u.TelegramID)
}

func (f *fakeScheduler) CancelUser(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, id)
}

func newTestRegistration(repo *fakeUserRepo, sched *fakeScheduler, now time.Time) *RegistrationService {
	s := NewRegistrationService(repo, sched, testLogger())
	s.now = func() time.Time { return now }
	return s
}

func TestRegistrationFlow(t *testing.T) {
	repo := newFakeUserRepo()
	sched := &fakeScheduler{}
	now := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	s := newTestRegistration(repo, sched, now)

	s.Begin(1)
	if state, ok := s.State(1); !ok || state != StateAwaitingName {
		t.Fatalf("want awaiting_name, got %v %v", state, ok)
	}

	name, err := s.SubmitName(1, "  Иван ")
	if err != nil || name != "Иван" {
		t.Fatalf("SubmitName: %q %v", name, err)
	}
	if state, _ := s.State(1); state != StateAwaitingBirthdate {
		t.Fatalf("want awaiting_birthdate, got %v", state)
	}

	u, weeks, err := s.SubmitBirthdate(context.Background(), 1, "ivan", "01.01.2024")
	if err != nil {
		t.Fatalf("SubmitBirthdate: %v", err)
	}
	if weeks != 2 {
		t.Fatalf("want 2 weeks lived at registration, got %d", weeks)
	}
	if u.Name != "Иван" || !u.Username.Valid || u.Username.String != "ivan" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if len(sched.scheduled) != 1 || sched.scheduled[0] != 1 {
		t.Fatalf("timer must be scheduled exactly once, got %v", sched.scheduled)
	}
	if _, ok := s.State(1); ok {
		t.Fatalf("dialog must be closed after registration")
	}
}

func TestSubmitName_Invalid(t *testing.T) {
	s := newTestRegistration(newFakeUserRepo(), &fakeScheduler{}, time.Now())
	s.Begin(1)
	if _, err := s.SubmitName(1, "X"); !errors.Is(err, user.ErrNameLength) {
		t.Fatalf("want ErrNameLength, got %v", err)
	}
	// Dialog must remain on the name step after a rejected input.
	if state, _ := s.State(1); state != StateAwaitingName {
		t.Fatalf("want awaiting_name after invalid input, got %v", state)
	}
}

func TestSubmitBirthdate_ValidationErrors(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	s := newTestRegistration(newFakeUserRepo(), &fakeScheduler{}, now)
	s.Begin(1)
	if _, err := s.SubmitName(1, "Аня"); err != nil {
		t.Fatalf("SubmitName: %v", err)
	}

	cases := []struct {
		input string
		want  error
	}{
		{"garbage", user.ErrBirthdateFormat},
		{"01.01.2030", user.ErrBirthdateInFuture},
		{"01.01.1899", user.ErrBirthdateTooOld},
	}
	for _, c := range cases {
		if _, _, err := s.SubmitBirthdate(context.Background(), 1, "", c.input); !errors.Is(err, c.want) {
			t.Fatalf("input %q: want %v, got %v", c.input, c.want, err)
		}
		if state, _ := s.State(1); state != StateAwaitingBirthdate {
			t.Fatalf("dialog must stay on birthdate step after %q", c.input)
		}
	}
}

func TestReset_ReRegistration(t *testing.T) {
	repo := newFakeUserRepo()
	sched := &fakeScheduler{}
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	s := newTestRegistration(repo, sched, now)

	s.Begin(1)
	if _, err := s.SubmitName(1, "Иван"); err != nil {
		t.Fatalf("SubmitName: %v", err)
	}
	if _, _, err := s.SubmitBirthdate(context.Background(), 1, "", "03.01.2024"); err != nil {
		t.Fatalf("SubmitBirthdate: %v", err)
	}

	if err := s.Reset(context.Background(), 1); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if len(sched.cancelled) != 1 || sched.cancelled[0] != 1 {
		t.Fatalf("reset must cancel the old timer, got %v", sched.cancelled)
	}
	if state, ok := s.State(1); !ok || state != StateAwaitingName {
		t.Fatalf("reset must restart the dialog, got %v %v", state, ok)
	}

	if _, err := s.SubmitName(1, "Пётр"); err != nil {
		t.Fatalf("SubmitName after reset: %v", err)
	}
	u, _, err := s.SubmitBirthdate(context.Background(), 1, "", "05.01.2024")
	if err != nil {
		t.Fatalf("SubmitBirthdate after reset: %v", err)
	}
	if u.Name != "Пётр" {
		t.Fatalf("want replaced user record, got %+v", u)
	}
	if len(sched.scheduled) != 2 {
		t.Fatalf("re-registration must schedule a fresh timer, got %v", sched.scheduled)
	}
}

func TestReset_UnknownUserStillStartsDialog(t *testing.T) {
	s := newTestRegistration(newFakeUserRepo(), &fakeScheduler{}, time.Now())
	if err := s.Reset(context.Background(), 7); err != nil {
		t.Fatalf("Reset of unknown user must not fail: %v", err)
	}
	if state, ok := s.State(7); !ok || state != StateAwaitingName {
		t.Fatalf("want awaiting_name, got %v %v", state, ok)
	}
}
