package volley

// MatchState defines the lifecycle state of a match.
type MatchState string

const (
	// StateOpen is the initial state: join requests are accepted and the
	// allocation engine is active.
	StateOpen MatchState = "OPEN"
	// StateVerifying means the pre-start deadline has passed and payments
	// are being verified. The roster is frozen for allocation.
	StateVerifying MatchState = "VERIFYING"
	// StateClosed means the organizer confirmed the roster and payments.
	StateClosed MatchState = "CLOSED"
	// StatePlayed is terminal: the match start time has passed.
	StatePlayed MatchState = "PLAYED"
	// StateCancelled is terminal and irreversible.
	StateCancelled MatchState = "CANCELLED"
)

// Terminal reports whether no further lifecycle transition applies.
func (s MatchState) Terminal() bool {
	return s == StatePlayed || s == StateCancelled
}

// PaymentStatus defines the payment verification state of a participation.
type PaymentStatus string

const (
	PaymentConfirmed PaymentStatus = "CONFIRMED"
	PaymentPending   PaymentStatus = "PENDING"
	// PaymentDeferred marks players promoted after the deadline, who cannot
	// be required to pay on the original schedule.
	PaymentDeferred PaymentStatus = "DEFERRED"
)

// ParticipationStatus defines the allocation state of a join request.
type ParticipationStatus string

const (
	ParticipationPending    ParticipationStatus = "PENDING"
	ParticipationStarter    ParticipationStatus = "STARTER"
	ParticipationSubstitute ParticipationStatus = "SUBSTITUTE"
	ParticipationRemoved    ParticipationStatus = "REMOVED"
)

// Match represents a single recurring group match. Matches are never
// deleted, only cancelled.
type Match struct {
	ID                string
	GroupID           string
	State             MatchState
	StartTime         int64
	Quotas            map[string]int
	SubsCapacity      int
	TeamCount         int
	DeadlineProcessed bool
	LockOwner         string
	LockExpiresAt     int64
	CreatedAt         int64
}

// Participation represents one player's join request for one match and its
// allocation outcome. StarterRank and SubstituteRank are mutually exclusive.
type Participation struct {
	ID             string
	MatchID        string
	PlayerID       string
	Status         ParticipationStatus
	Position       string
	StarterRank    *int
	SubstituteRank *int
	Score          float64
	PaymentStatus  PaymentStatus
	CreatedAt      int64
}

// Active reports whether the participation still competes for a slot.
func (p *Participation) Active() bool {
	return p.Status != ParticipationRemoved
}

// Player represents a group member's profile as the scoring engine sees it.
type Player struct {
	ID   string
	Name string
	// Commitment is a signed reliability counter, decayed on withdrawal.
	Commitment float64
	// PreferredPositions is the ordered list (1-3) of positions the player
	// wants to play, highest priority first.
	PreferredPositions []string
}

// Group represents the owning group of a series of matches.
type Group struct {
	ID                 string
	Name               string
	AdminID            string
	TotalMatchesPlayed int
}

// TeamSlot pins one starter to one position inside a generated team.
type TeamSlot struct {
	PlayerID string `json:"player_id"`
	Position string `json:"position"`
}

// Team is one of the N balanced teams generated for a match.
type Team struct {
	Name  string     `json:"name"`
	Slots []TeamSlot `json:"slots"`
}

// TeamSet is the team document for a match. It is fully regenerated, never
// patched incrementally.
type TeamSet struct {
	MatchID     string `json:"match_id"`
	GeneratedAt int64  `json:"generated_at"`
	Teams       []Team `json:"teams"`
}

// Assignment is the allocation engine's verdict for one participation. It is
// persisted as a single atomic batch together with the other assignments of
// the same run.
type Assignment struct {
	ParticipationID string
	PlayerID        string
	Status          ParticipationStatus
	Position        string
	StarterRank     *int
	SubstituteRank  *int
	Score           float64
}
