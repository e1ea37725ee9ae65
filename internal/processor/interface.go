package processor

import (
	"github.com/RodolfoRXXX/project-voley-sub000/internal/volley"
)

// Store defines the database operations required by the processor.
type Store interface {
	CreateMatch(m *volley.Match) error
	GetMatch(matchID string) (*volley.Match, error)
	ListMatchesByState(states ...volley.MatchState) ([]*volley.Match, error)
	TransitionState(matchID string, from, to volley.MatchState) error
	SetDeadlineProcessed(matchID string, processed bool) error
	CreateParticipation(p *volley.Participation) error
	GetParticipation(participationID string) (*volley.Participation, error)
	GetActiveParticipations(matchID string) ([]*volley.Participation, error)
	GetParticipationsByStatus(matchID string, status volley.ParticipationStatus) ([]*volley.Participation, error)
	MarkRemoved(participationID string) error
	SetPaymentStatus(participationID string, status volley.PaymentStatus) error
	ApplyAssignments(matchID string, assignments []volley.Assignment) error
	PromoteSubstitute(participationID, position string, deferPayment bool) error
	GetPlayer(playerID string) (*volley.Player, error)
	GetPlayers(playerIDs []string) (map[string]*volley.Player, error)
	AdjustCommitment(playerID string, delta float64) error
	GetGroup(groupID string) (*volley.Group, error)
	GetGroupCounters(groupID string) (int, map[string]int, error)
	RecordMatchPlayed(groupID string, starterPlayerIDs []string) error
	SaveTeams(set *volley.TeamSet) error
}

// Guard serializes roster recalculations against the same match. Do runs fn
// while holding the match lease and fails fast when another run holds it.
type Guard interface {
	Do(matchID string, fn func() error) error
}
