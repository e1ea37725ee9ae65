package notifier

import (
	"sync"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/volley"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendRosterNotificationFunc func(match *volley.Match, starters, substitutes []*volley.Participation, players map[string]*volley.Player, dryRun bool) error
	SendVacancyAlertFunc       func(match *volley.Match, position string, dryRun bool) error
	SendTeamsNotificationFunc  func(match *volley.Match, set *volley.TeamSet, players map[string]*volley.Player, dryRun bool) error
	SendMatchPlayedFunc        func(match *volley.Match, dryRun bool) error

	// Call records
	SendRosterNotificationCalls []struct {
		Match       *volley.Match
		Starters    []*volley.Participation
		Substitutes []*volley.Participation
	}
	SendVacancyAlertCalls []struct {
		Match    *volley.Match
		Position string
	}
	SendTeamsNotificationCalls []struct {
		Match *volley.Match
		Set   *volley.TeamSet
	}
	SendMatchPlayedCalls []struct {
		Match *volley.Match
	}
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRosterNotificationCalls = nil
	m.SendVacancyAlertCalls = nil
	m.SendTeamsNotificationCalls = nil
	m.SendMatchPlayedCalls = nil
}

func (m *Mock) SendRosterNotification(match *volley.Match, starters, substitutes []*volley.Participation, players map[string]*volley.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRosterNotificationCalls = append(m.SendRosterNotificationCalls, struct {
		Match       *volley.Match
		Starters    []*volley.Participation
		Substitutes []*volley.Participation
	}{match, starters, substitutes})
	if m.SendRosterNotificationFunc != nil {
		return m.SendRosterNotificationFunc(match, starters, substitutes, players, dryRun)
	}
	return nil
}

func (m *Mock) SendVacancyAlert(match *volley.Match, position string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendVacancyAlertCalls = append(m.SendVacancyAlertCalls, struct {
		Match    *volley.Match
		Position string
	}{match, position})
	if m.SendVacancyAlertFunc != nil {
		return m.SendVacancyAlertFunc(match, position, dryRun)
	}
	return nil
}

func (m *Mock) SendTeamsNotification(match *volley.Match, set *volley.TeamSet, players map[string]*volley.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendTeamsNotificationCalls = append(m.SendTeamsNotificationCalls, struct {
		Match *volley.Match
		Set   *volley.TeamSet
	}{match, set})
	if m.SendTeamsNotificationFunc != nil {
		return m.SendTeamsNotificationFunc(match, set, players, dryRun)
	}
	return nil
}

func (m *Mock) SendMatchPlayed(match *volley.Match, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchPlayedCalls = append(m.SendMatchPlayedCalls, struct {
		Match *volley.Match
	}{match})
	if m.SendMatchPlayedFunc != nil {
		return m.SendMatchPlayedFunc(match, dryRun)
	}
	return nil
}
