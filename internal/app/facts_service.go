// internal/app/facts_service.go
package app

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"lifeweeks_bot/internal/domain/lifeweeks"
)

const averageWorldLifespanYears = 73

// FactsService produces random life-math facts for the status view. Facts are
// drawn without repetition from a per-user pool; once a pool is exhausted it
// is rebuilt from the user's current dates.
type FactsService struct {
	now func() time.Time

	mu    sync.Mutex
	pools map[int64][]string
}

func NewFactsService() *FactsService {
	return &FactsService{
		now:   time.Now,
		pools: make(map[int64][]string),
	}
}

// RandomFact returns one not-yet-shown fact for the user.
func (s *FactsService) RandomFact(telegramID int64, birthdate time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool := s.pools[telegramID]
	if len(pool) == 0 {
		pool = buildFacts(birthdate, s.now())
	}

	i := rand.Intn(len(pool))
	fact := pool[i]
	s.pools[telegramID] = append(pool[:i], pool[i+1:]...)
	return fact
}

// Forget drops the user's remaining pool, e.g. after re-registration changed
// their birthdate.
func (s *FactsService) Forget(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pools, telegramID)
}

func buildFacts(birthdate, now time.Time) []string {
	var facts []string

	ageYears := daysBetween(birthdate, now) / 365

	// Weeks to the next round-number age (30, 40, 50, ...).
	nextRoundedAge := ((ageYears / 10) + 1) * 10
	roundDate := lifeweeks.AddYears(birthdate, nextRoundedAge)
	facts = append(facts, fmt.Sprintf("Осталось %s до %d лет!",
		lifeweeks.WeeksText(weeksUntil(now, roundDate), lifeweeks.CaseNominative, false), nextRoundedAge))

	// Weeks to adulthood, only for minors.
	if ageYears < 18 {
		adultDate := lifeweeks.AddYears(birthdate, 18)
		facts = append(facts, fmt.Sprintf("Осталось %s до совершеннолетия (18 лет)!",
			lifeweeks.WeeksText(weeksUntil(now, adultDate), lifeweeks.CaseNominative, false)))
	}

	// Weeks to the next birthday.
	nextBirthday := lifeweeks.AddYears(birthdate, now.Year()-birthdate.Year())
	if nextBirthday.Before(now) {
		nextBirthday = lifeweeks.AddYears(birthdate, now.Year()-birthdate.Year()+1)
	}
	facts = append(facts, fmt.Sprintf("До следующего дня рождения осталось %s!",
		lifeweeks.WeeksText(weeksUntil(now, nextBirthday), lifeweeks.CaseNominative, false)))

	// Weeks passed this year.
	firstDayOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	facts = append(facts, fmt.Sprintf("В этом году уже прошло %s!",
		lifeweeks.WeeksText(lifeweeks.WeeksLived(firstDayOfYear, now), lifeweeks.CaseNominative, false)))

	// Weeks to new year.
	newYear := time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, now.Location())
	facts = append(facts, fmt.Sprintf("До Нового года осталось %s!",
		lifeweeks.WeeksText(weeksUntil(now, newYear), lifeweeks.CaseNominative, false)))

	// Weeks to the average world lifespan.
	if ageYears < averageWorldLifespanYears {
		lifespanDate := lifeweeks.AddYears(birthdate, averageWorldLifespanYears)
		facts = append(facts, fmt.Sprintf("Осталось %s до среднего возраста в мире (%d года)!",
			lifeweeks.WeeksText(weeksUntil(now, lifespanDate), lifeweeks.CaseNominative, false), averageWorldLifespanYears))
	} else {
		facts = append(facts, fmt.Sprintf("Вы уже достигли среднего возраста в мире (%d года)!", averageWorldLifespanYears))
	}

	return facts
}

func weeksUntil(now, target time.Time) int {
	return lifeweeks.WeeksLived(now, target)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
