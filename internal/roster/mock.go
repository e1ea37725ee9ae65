package roster

import (
	"sync"
	"time"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/volley"
)

// MockStore is a mock implementation of the RosterStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateMatchFunc               func(m *volley.Match) error
	GetMatchFunc                  func(matchID string) (*volley.Match, error)
	ListMatchesByStateFunc        func(states ...volley.MatchState) ([]*volley.Match, error)
	TransitionStateFunc           func(matchID string, from, to volley.MatchState) error
	SetDeadlineProcessedFunc      func(matchID string, processed bool) error
	AcquireMatchLeaseFunc         func(matchID, owner string, ttl time.Duration) error
	ReleaseMatchLeaseFunc         func(matchID, owner string) error
	CreateParticipationFunc       func(p *volley.Participation) error
	GetParticipationFunc          func(participationID string) (*volley.Participation, error)
	GetActiveParticipationsFunc   func(matchID string) ([]*volley.Participation, error)
	GetParticipationsByStatusFunc func(matchID string, status volley.ParticipationStatus) ([]*volley.Participation, error)
	MarkRemovedFunc               func(participationID string) error
	SetPaymentStatusFunc          func(participationID string, status volley.PaymentStatus) error
	ApplyAssignmentsFunc          func(matchID string, assignments []volley.Assignment) error
	PromoteSubstituteFunc         func(participationID, position string, deferPayment bool) error
	UpsertPlayerFunc              func(p *volley.Player) error
	GetPlayerFunc                 func(playerID string) (*volley.Player, error)
	GetPlayersFunc                func(playerIDs []string) (map[string]*volley.Player, error)
	AdjustCommitmentFunc          func(playerID string, delta float64) error
	CreateGroupFunc               func(g *volley.Group) error
	GetGroupFunc                  func(groupID string) (*volley.Group, error)
	GetGroupCountersFunc          func(groupID string) (int, map[string]int, error)
	RecordMatchPlayedFunc         func(groupID string, starterPlayerIDs []string) error
	SaveTeamsFunc                 func(set *volley.TeamSet) error
	GetTeamsFunc                  func(matchID string) (*volley.TeamSet, error)

	// Call records
	CreateMatchCalls         []*volley.Match
	CreateParticipationCalls []*volley.Participation
	TransitionStateCalls     []struct {
		MatchID string
		From    volley.MatchState
		To      volley.MatchState
	}
	SetDeadlineProcessedCalls []struct {
		MatchID   string
		Processed bool
	}
	AcquireMatchLeaseCalls []struct {
		MatchID string
		Owner   string
		TTL     time.Duration
	}
	ReleaseMatchLeaseCalls []struct {
		MatchID string
		Owner   string
	}
	MarkRemovedCalls      []string
	SetPaymentStatusCalls []struct {
		ParticipationID string
		Status          volley.PaymentStatus
	}
	ApplyAssignmentsCalls []struct {
		MatchID     string
		Assignments []volley.Assignment
	}
	PromoteSubstituteCalls []struct {
		ParticipationID string
		Position        string
		DeferPayment    bool
	}
	AdjustCommitmentCalls []struct {
		PlayerID string
		Delta    float64
	}
	RecordMatchPlayedCalls []struct {
		GroupID   string
		PlayerIDs []string
	}
	SaveTeamsCalls []*volley.TeamSet
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateMatchCalls = nil
	m.CreateParticipationCalls = nil
	m.TransitionStateCalls = nil
	m.SetDeadlineProcessedCalls = nil
	m.AcquireMatchLeaseCalls = nil
	m.ReleaseMatchLeaseCalls = nil
	m.MarkRemovedCalls = nil
	m.SetPaymentStatusCalls = nil
	m.ApplyAssignmentsCalls = nil
	m.PromoteSubstituteCalls = nil
	m.AdjustCommitmentCalls = nil
	m.RecordMatchPlayedCalls = nil
	m.SaveTeamsCalls = nil
}

func (m *MockStore) CreateMatch(match *volley.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateMatchCalls = append(m.CreateMatchCalls, match)
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(match)
	}
	return nil
}

func (m *MockStore) GetMatch(matchID string) (*volley.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, ErrMatchNotFound
}

func (m *MockStore) ListMatchesByState(states ...volley.MatchState) ([]*volley.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListMatchesByStateFunc != nil {
		return m.ListMatchesByStateFunc(states...)
	}
	return nil, nil
}

func (m *MockStore) TransitionState(matchID string, from, to volley.MatchState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TransitionStateCalls = append(m.TransitionStateCalls, struct {
		MatchID string
		From    volley.MatchState
		To      volley.MatchState
	}{matchID, from, to})
	if m.TransitionStateFunc != nil {
		return m.TransitionStateFunc(matchID, from, to)
	}
	return nil
}

func (m *MockStore) SetDeadlineProcessed(matchID string, processed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetDeadlineProcessedCalls = append(m.SetDeadlineProcessedCalls, struct {
		MatchID   string
		Processed bool
	}{matchID, processed})
	if m.SetDeadlineProcessedFunc != nil {
		return m.SetDeadlineProcessedFunc(matchID, processed)
	}
	return nil
}

func (m *MockStore) AcquireMatchLease(matchID, owner string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AcquireMatchLeaseCalls = append(m.AcquireMatchLeaseCalls, struct {
		MatchID string
		Owner   string
		TTL     time.Duration
	}{matchID, owner, ttl})
	if m.AcquireMatchLeaseFunc != nil {
		return m.AcquireMatchLeaseFunc(matchID, owner, ttl)
	}
	return nil
}

func (m *MockStore) ReleaseMatchLease(matchID, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReleaseMatchLeaseCalls = append(m.ReleaseMatchLeaseCalls, struct {
		MatchID string
		Owner   string
	}{matchID, owner})
	if m.ReleaseMatchLeaseFunc != nil {
		return m.ReleaseMatchLeaseFunc(matchID, owner)
	}
	return nil
}

func (m *MockStore) CreateParticipation(p *volley.Participation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateParticipationCalls = append(m.CreateParticipationCalls, p)
	if m.CreateParticipationFunc != nil {
		return m.CreateParticipationFunc(p)
	}
	return nil
}

func (m *MockStore) GetParticipation(participationID string) (*volley.Participation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetParticipationFunc != nil {
		return m.GetParticipationFunc(participationID)
	}
	return nil, ErrParticipationNotFound
}

func (m *MockStore) GetActiveParticipations(matchID string) ([]*volley.Participation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetActiveParticipationsFunc != nil {
		return m.GetActiveParticipationsFunc(matchID)
	}
	return nil, nil
}

func (m *MockStore) GetParticipationsByStatus(matchID string, status volley.ParticipationStatus) ([]*volley.Participation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetParticipationsByStatusFunc != nil {
		return m.GetParticipationsByStatusFunc(matchID, status)
	}
	return nil, nil
}

func (m *MockStore) MarkRemoved(participationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkRemovedCalls = append(m.MarkRemovedCalls, participationID)
	if m.MarkRemovedFunc != nil {
		return m.MarkRemovedFunc(participationID)
	}
	return nil
}

func (m *MockStore) SetPaymentStatus(participationID string, status volley.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetPaymentStatusCalls = append(m.SetPaymentStatusCalls, struct {
		ParticipationID string
		Status          volley.PaymentStatus
	}{participationID, status})
	if m.SetPaymentStatusFunc != nil {
		return m.SetPaymentStatusFunc(participationID, status)
	}
	return nil
}

func (m *MockStore) ApplyAssignments(matchID string, assignments []volley.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplyAssignmentsCalls = append(m.ApplyAssignmentsCalls, struct {
		MatchID     string
		Assignments []volley.Assignment
	}{matchID, assignments})
	if m.ApplyAssignmentsFunc != nil {
		return m.ApplyAssignmentsFunc(matchID, assignments)
	}
	return nil
}

func (m *MockStore) PromoteSubstitute(participationID, position string, deferPayment bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PromoteSubstituteCalls = append(m.PromoteSubstituteCalls, struct {
		ParticipationID string
		Position        string
		DeferPayment    bool
	}{participationID, position, deferPayment})
	if m.PromoteSubstituteFunc != nil {
		return m.PromoteSubstituteFunc(participationID, position, deferPayment)
	}
	return nil
}

func (m *MockStore) UpsertPlayer(p *volley.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertPlayerFunc != nil {
		return m.UpsertPlayerFunc(p)
	}
	return nil
}

func (m *MockStore) GetPlayer(playerID string) (*volley.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return nil, ErrPlayerNotFound
}

func (m *MockStore) GetPlayers(playerIDs []string) (map[string]*volley.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(playerIDs)
	}
	return map[string]*volley.Player{}, nil
}

func (m *MockStore) AdjustCommitment(playerID string, delta float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AdjustCommitmentCalls = append(m.AdjustCommitmentCalls, struct {
		PlayerID string
		Delta    float64
	}{playerID, delta})
	if m.AdjustCommitmentFunc != nil {
		return m.AdjustCommitmentFunc(playerID, delta)
	}
	return nil
}

func (m *MockStore) CreateGroup(g *volley.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateGroupFunc != nil {
		return m.CreateGroupFunc(g)
	}
	return nil
}

func (m *MockStore) GetGroup(groupID string) (*volley.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetGroupFunc != nil {
		return m.GetGroupFunc(groupID)
	}
	return nil, ErrGroupNotFound
}

func (m *MockStore) GetGroupCounters(groupID string) (int, map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetGroupCountersFunc != nil {
		return m.GetGroupCountersFunc(groupID)
	}
	return 0, map[string]int{}, nil
}

func (m *MockStore) RecordMatchPlayed(groupID string, starterPlayerIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordMatchPlayedCalls = append(m.RecordMatchPlayedCalls, struct {
		GroupID   string
		PlayerIDs []string
	}{groupID, starterPlayerIDs})
	if m.RecordMatchPlayedFunc != nil {
		return m.RecordMatchPlayedFunc(groupID, starterPlayerIDs)
	}
	return nil
}

func (m *MockStore) SaveTeams(set *volley.TeamSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveTeamsCalls = append(m.SaveTeamsCalls, set)
	if m.SaveTeamsFunc != nil {
		return m.SaveTeamsFunc(set)
	}
	return nil
}

func (m *MockStore) GetTeams(matchID string) (*volley.TeamSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetTeamsFunc != nil {
		return m.GetTeamsFunc(matchID)
	}
	return nil, nil
}

func (m *MockStore) Clear() {}
