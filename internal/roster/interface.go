package roster

import (
	"time"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/volley"
)

// RosterStore defines the interface for interacting with match, player and
// group data.
type RosterStore interface {
	CreateMatch(m *volley.Match) error
	GetMatch(matchID string) (*volley.Match, error)
	ListMatchesByState(states ...volley.MatchState) ([]*volley.Match, error)
	TransitionState(matchID string, from, to volley.MatchState) error
	SetDeadlineProcessed(matchID string, processed bool) error
	AcquireMatchLease(matchID, owner string, ttl time.Duration) error
	ReleaseMatchLease(matchID, owner string) error

	CreateParticipation(p *volley.Participation) error
	GetParticipation(participationID string) (*volley.Participation, error)
	GetActiveParticipations(matchID string) ([]*volley.Participation, error)
	GetParticipationsByStatus(matchID string, status volley.ParticipationStatus) ([]*volley.Participation, error)
	MarkRemoved(participationID string) error
	SetPaymentStatus(participationID string, status volley.PaymentStatus) error
	ApplyAssignments(matchID string, assignments []volley.Assignment) error
	PromoteSubstitute(participationID, position string, deferPayment bool) error

	UpsertPlayer(p *volley.Player) error
	GetPlayer(playerID string) (*volley.Player, error)
	GetPlayers(playerIDs []string) (map[string]*volley.Player, error)
	AdjustCommitment(playerID string, delta float64) error

	CreateGroup(g *volley.Group) error
	GetGroup(groupID string) (*volley.Group, error)
	GetGroupCounters(groupID string) (int, map[string]int, error)
	RecordMatchPlayed(groupID string, starterPlayerIDs []string) error

	SaveTeams(set *volley.TeamSet) error
	GetTeams(matchID string) (*volley.TeamSet, error)

	Clear()
}
