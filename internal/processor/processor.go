package processor

import (
	"errors"
	"fmt"
	"time"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/allocation"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/lifecycle"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/metrics"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/notifier"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/positions"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/pubsub"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/roster"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/teams"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/volley"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const defaultLeadTime = 24 * time.Hour

// New creates a Processor wired to the given store and side-effect clients.
func New(store Store, guard Guard, catalog *positions.Catalog, n notifier.Notifier, m metrics.Metrics, ps pubsub.PubSubClient, opts ...Option) *Processor {
	p := &Processor{
		store:       store,
		guard:       guard,
		engine:      allocation.New(catalog),
		partitioner: teams.New(),
		catalog:     catalog,
		notifier:    n,
		metrics:     m,
		pubSub:      ps,
		leadTime:    defaultLeadTime,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CreateMatch creates a new open match for a group. Only the group admin may
// create matches. Missing quotas fall back to the position defaults scaled by
// team count.
func (p *Processor) CreateMatch(input CreateMatchInput) (*volley.Match, error) {
	group, err := p.store.GetGroup(input.GroupID)
	if err != nil {
		return nil, err
	}
	if input.CallerID != group.AdminID {
		return nil, ErrNotAdmin
	}

	teamCount := input.TeamCount
	if teamCount <= 0 {
		teamCount = 2
	}
	quotas := input.Quotas
	if len(quotas) == 0 {
		quotas = p.catalog.DefaultQuotas(teamCount)
	}
	if err := p.catalog.ValidateQuotas(quotas); err != nil {
		return nil, err
	}

	match := &volley.Match{
		ID:           uuid.NewString(),
		GroupID:      input.GroupID,
		State:        volley.StateOpen,
		StartTime:    input.StartTime,
		Quotas:       quotas,
		SubsCapacity: input.SubsCapacity,
		TeamCount:    teamCount,
		CreatedAt:    p.now().Unix(),
	}
	if err := p.store.CreateMatch(match); err != nil {
		return nil, err
	}
	log.Info("Match created", "matchID", match.ID, "groupID", match.GroupID, "startTime", match.StartTime)
	return match, nil
}

// RequestJoin registers a player on an open match and recalculates the roster.
// The participation is persisted before the allocation run, so a busy lease
// only delays the recalculation until the next roster event.
func (p *Processor) RequestJoin(matchID, playerID string, dryRun bool) (*volley.Participation, error) {
	match, err := p.store.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	if match.State != volley.StateOpen {
		return nil, fmt.Errorf("%w: state is %s", ErrMatchNotOpen, match.State)
	}

	player, err := p.store.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}
	if err := p.catalog.ValidatePreferences(player.PreferredPositions); err != nil {
		return nil, err
	}

	participation := &volley.Participation{
		ID:            uuid.NewString(),
		MatchID:       matchID,
		PlayerID:      playerID,
		Status:        volley.ParticipationPending,
		PaymentStatus: volley.PaymentPending,
		CreatedAt:     p.now().Unix(),
	}
	if err := p.store.CreateParticipation(participation); err != nil {
		return nil, err
	}
	log.Info("Join request accepted", "matchID", matchID, "playerID", playerID)

	err = p.guard.Do(matchID, func() error {
		return p.recalc(matchID, "", dryRun)
	})
	if err != nil {
		if errors.Is(err, roster.ErrLockBusy) {
			p.publishEvent(pubsub.EventRecalcRequested, match, "")
		}
		return participation, err
	}
	return participation, nil
}

// Withdraw removes a participation, decays the player's commitment and, for a
// starter, tries to promote a substitute into the vacated position.
func (p *Processor) Withdraw(participationID string, dryRun bool) error {
	participation, err := p.store.GetParticipation(participationID)
	if err != nil {
		return err
	}
	if participation.Status == volley.ParticipationRemoved {
		return ErrAlreadyWithdrawn
	}

	match, err := p.store.GetMatch(participation.MatchID)
	if err != nil {
		return err
	}
	if match.State.Terminal() {
		return fmt.Errorf("%w: state is %s", ErrMatchOver, match.State)
	}

	if err := p.store.MarkRemoved(participationID); err != nil {
		return err
	}
	if err := p.store.AdjustCommitment(participation.PlayerID, -1); err != nil {
		log.Error("Failed to decay commitment", "error", err, "playerID", participation.PlayerID)
	}
	log.Info("Player withdrawn", "matchID", match.ID, "playerID", participation.PlayerID, "status", participation.Status)

	vacated := ""
	if participation.Status == volley.ParticipationStarter && participation.Position != "" {
		vacated = participation.Position
	}
	err = p.guard.Do(match.ID, func() error {
		return p.recalc(match.ID, vacated, dryRun)
	})
	if errors.Is(err, roster.ErrLockBusy) {
		// The withdrawal is already committed; hand the skipped replacement
		// to the retry consumer instead of losing it.
		p.publishEvent(pubsub.EventRecalcRequested, match, vacated)
	}
	return err
}

// RecalculateRoster re-runs replacement and allocation for a match. This is
// the retry entry point for work skipped on a busy lease; vacatedPosition is
// empty unless a starter withdrawal left a slot to refill.
func (p *Processor) RecalculateRoster(matchID, vacatedPosition string, dryRun bool) error {
	return p.guard.Do(matchID, func() error {
		return p.recalc(matchID, vacatedPosition, dryRun)
	})
}

// recalc re-reads the match under the lease and runs replacement, when a
// position was vacated, followed by a full allocation pass. Must be called
// while holding the match lease.
func (p *Processor) recalc(matchID, vacatedPosition string, dryRun bool) error {
	match, err := p.store.GetMatch(matchID)
	if err != nil {
		return err
	}
	if vacatedPosition != "" {
		if err := p.replaceStarter(match, vacatedPosition, dryRun); err != nil {
			return err
		}
	}
	return p.reallocate(match, dryRun)
}

// replaceStarter promotes the best eligible substitute into a vacated
// position. When nobody qualifies the slot stays open and the organizer is
// alerted. Must be called while holding the match lease.
func (p *Processor) replaceStarter(match *volley.Match, position string, dryRun bool) error {
	p.metrics.IncReplacementRuns()

	starters, err := p.store.GetParticipationsByStatus(match.ID, volley.ParticipationStarter)
	if err != nil {
		return err
	}
	occupied := 0
	for _, s := range starters {
		if s.Position == position {
			occupied++
		}
	}
	// A redelivered retry can arrive after the slot was already refilled.
	if occupied >= match.Quotas[position] {
		return nil
	}

	substitutes, err := p.store.GetParticipationsByStatus(match.ID, volley.ParticipationSubstitute)
	if err != nil {
		return err
	}
	candidates, err := p.buildCandidates(match, substitutes)
	if err != nil {
		return err
	}

	promotion, err := p.engine.Replace(candidates, position, match.DeadlineProcessed)
	if err != nil {
		return err
	}
	if promotion == nil {
		log.Warn("No eligible substitute for vacated position", "matchID", match.ID, "position", position)
		if err := p.notifier.SendVacancyAlert(match, position, dryRun); err != nil {
			log.Error("Failed to send vacancy alert", "error", err, "matchID", match.ID)
		}
		p.publishEvent(pubsub.EventPositionVacant, match, position)
		return nil
	}

	if err := p.store.PromoteSubstitute(promotion.ParticipationID, promotion.Position, promotion.DeferPayment); err != nil {
		return err
	}
	log.Info("Substitute promoted", "matchID", match.ID, "playerID", promotion.PlayerID,
		"position", promotion.Position, "deferredPayment", promotion.DeferPayment)
	return nil
}

// reallocate recomputes the full roster for a match. It is a no-op unless the
// match is open. The match must have been read under the lease.
func (p *Processor) reallocate(match *volley.Match, dryRun bool) error {
	if match.State != volley.StateOpen {
		return nil
	}

	start := p.now()
	p.metrics.IncAllocationRuns()

	active, err := p.store.GetActiveParticipations(match.ID)
	if err != nil {
		return err
	}
	candidates, err := p.buildCandidates(match, active)
	if err != nil {
		return err
	}
	totalPlayed, _, err := p.store.GetGroupCounters(match.GroupID)
	if err != nil {
		return err
	}

	result, err := p.engine.Allocate(match, candidates, totalPlayed)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err := p.store.ApplyAssignments(match.ID, result.Assignments()); err != nil {
		return err
	}
	p.metrics.ObserveAllocationDuration(p.now().Sub(start).Seconds())
	log.Info("Roster recalculated", "matchID", match.ID,
		"starters", len(result.Starters), "substitutes", len(result.Substitutes), "overflow", len(result.Overflow))

	p.publishEvent(pubsub.EventRosterUpdated, match, "")
	return p.notifyRoster(match, dryRun)
}

// buildCandidates joins participations with their players and played counters.
func (p *Processor) buildCandidates(match *volley.Match, participations []*volley.Participation) ([]allocation.Candidate, error) {
	if len(participations) == 0 {
		return nil, nil
	}
	playerIDs := make([]string, 0, len(participations))
	for _, part := range participations {
		playerIDs = append(playerIDs, part.PlayerID)
	}
	players, err := p.store.GetPlayers(playerIDs)
	if err != nil {
		return nil, err
	}
	_, playedByPlayer, err := p.store.GetGroupCounters(match.GroupID)
	if err != nil {
		return nil, err
	}

	candidates := make([]allocation.Candidate, 0, len(participations))
	for _, part := range participations {
		player, ok := players[part.PlayerID]
		if !ok {
			log.Error("Participant has no player record, skipping", "matchID", match.ID, "playerID", part.PlayerID)
			continue
		}
		candidates = append(candidates, allocation.Candidate{
			Participation: part,
			Player:        player,
			PlayedInGroup: playedByPlayer[part.PlayerID],
		})
	}
	return candidates, nil
}

func (p *Processor) notifyRoster(match *volley.Match, dryRun bool) error {
	starters, err := p.store.GetParticipationsByStatus(match.ID, volley.ParticipationStarter)
	if err != nil {
		return err
	}
	substitutes, err := p.store.GetParticipationsByStatus(match.ID, volley.ParticipationSubstitute)
	if err != nil {
		return err
	}
	playerIDs := make([]string, 0, len(starters)+len(substitutes))
	for _, part := range starters {
		playerIDs = append(playerIDs, part.PlayerID)
	}
	for _, part := range substitutes {
		playerIDs = append(playerIDs, part.PlayerID)
	}
	players, err := p.store.GetPlayers(playerIDs)
	if err != nil {
		return err
	}
	if err := p.notifier.SendRosterNotification(match, starters, substitutes, players, dryRun); err != nil {
		log.Error("Failed to send roster notification", "error", err, "matchID", match.ID)
	}
	return nil
}

func (p *Processor) publishEvent(event pubsub.EventType, match *volley.Match, position string) {
	err := p.pubSub.SendMessage(event, pubsub.RosterEvent{
		MatchID:  match.ID,
		GroupID:  match.GroupID,
		State:    string(match.State),
		Position: position,
	})
	if err != nil {
		log.Error("Failed to publish event", "error", err, "event", event, "matchID", match.ID)
	}
}

// SetPaymentStatus updates the payment status of an active participation.
func (p *Processor) SetPaymentStatus(participationID string, status volley.PaymentStatus) error {
	switch status {
	case volley.PaymentConfirmed, volley.PaymentPending, volley.PaymentDeferred:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, status)
	}
	participation, err := p.store.GetParticipation(participationID)
	if err != nil {
		return err
	}
	if !participation.Active() {
		return ErrAlreadyWithdrawn
	}
	return p.store.SetPaymentStatus(participationID, status)
}

// CloseMatch moves a verifying match to closed once every starter has a
// confirmed or deferred payment. Admin only.
func (p *Processor) CloseMatch(matchID, callerID string) error {
	match, err := p.adminMatch(matchID, callerID)
	if err != nil {
		return err
	}
	if err := lifecycle.Validate(match.State, volley.StateClosed); err != nil {
		return err
	}

	starters, err := p.store.GetParticipationsByStatus(matchID, volley.ParticipationStarter)
	if err != nil {
		return err
	}
	for _, s := range starters {
		if s.PaymentStatus == volley.PaymentPending {
			return fmt.Errorf("%w: player %s", ErrPaymentsPending, s.PlayerID)
		}
	}

	if err := p.store.TransitionState(matchID, match.State, volley.StateClosed); err != nil {
		return err
	}
	log.Info("Match closed", "matchID", matchID)
	return nil
}

// ReopenMatch moves a verifying match back to open before its start time,
// clearing the deadline flag so the sweeper picks it up again. Admin only.
func (p *Processor) ReopenMatch(matchID, callerID string) error {
	match, err := p.adminMatch(matchID, callerID)
	if err != nil {
		return err
	}
	if err := lifecycle.Validate(match.State, volley.StateOpen); err != nil {
		return err
	}
	if !p.now().Before(time.Unix(match.StartTime, 0)) {
		return ErrReopenAfterStart
	}

	if err := p.store.TransitionState(matchID, match.State, volley.StateOpen); err != nil {
		return err
	}
	if err := p.store.SetDeadlineProcessed(matchID, false); err != nil {
		return err
	}
	log.Info("Match reopened", "matchID", matchID)
	return nil
}

// CancelMatch cancels any non-terminal match. Admin only.
func (p *Processor) CancelMatch(matchID, callerID string) error {
	match, err := p.adminMatch(matchID, callerID)
	if err != nil {
		return err
	}
	if err := lifecycle.Validate(match.State, volley.StateCancelled); err != nil {
		return err
	}
	if err := p.store.TransitionState(matchID, match.State, volley.StateCancelled); err != nil {
		return err
	}
	log.Info("Match cancelled", "matchID", matchID)
	return nil
}

// GenerateTeams splits the starters of a closed match into balanced teams and
// persists the result. Admin only. A dry run skips the save.
func (p *Processor) GenerateTeams(matchID, callerID string, dryRun bool) (*volley.TeamSet, error) {
	match, err := p.adminMatch(matchID, callerID)
	if err != nil {
		return nil, err
	}
	starters, err := p.store.GetParticipationsByStatus(matchID, volley.ParticipationStarter)
	if err != nil {
		return nil, err
	}

	set, err := p.partitioner.Partition(match, starters, p.now())
	if err != nil {
		return nil, err
	}
	if dryRun {
		log.Info("[Dry Run] Teams generated but not saved", "matchID", matchID, "teams", len(set.Teams))
		return set, nil
	}
	if err := p.store.SaveTeams(set); err != nil {
		return nil, err
	}
	log.Info("Teams generated", "matchID", matchID, "teams", len(set.Teams))

	playerIDs := make([]string, 0)
	for _, team := range set.Teams {
		for _, slot := range team.Slots {
			playerIDs = append(playerIDs, slot.PlayerID)
		}
	}
	players, err := p.store.GetPlayers(playerIDs)
	if err != nil {
		return set, err
	}
	if err := p.notifier.SendTeamsNotification(match, set, players, dryRun); err != nil {
		log.Error("Failed to send teams notification", "error", err, "matchID", matchID)
	}
	return set, nil
}

// SweepDeadlines advances matches past their deadlines. Open matches inside
// the lead window move to verifying, closed matches past their start time move
// to played and credit the starters' counters. Failures on one match never
// block the rest of the sweep.
func (p *Processor) SweepDeadlines(now time.Time, dryRun bool) {
	p.metrics.IncSweepRuns()
	log.Info("Sweeping deadlines", "now", now.Unix())

	open, err := p.store.ListMatchesByState(volley.StateOpen)
	if err != nil {
		log.Error("Failed to list open matches", "error", err)
		p.metrics.IncSweepFailures()
		return
	}
	for _, match := range open {
		deadline := time.Unix(match.StartTime, 0).Add(-p.leadTime)
		if match.DeadlineProcessed || now.Before(deadline) {
			continue
		}
		if err := p.moveToVerifying(match, dryRun); err != nil {
			log.Error("Failed to move match to verifying", "error", err, "matchID", match.ID)
			p.metrics.IncSweepFailures()
		}
	}

	closed, err := p.store.ListMatchesByState(volley.StateClosed)
	if err != nil {
		log.Error("Failed to list closed matches", "error", err)
		p.metrics.IncSweepFailures()
		return
	}
	for _, match := range closed {
		if now.Before(time.Unix(match.StartTime, 0)) {
			continue
		}
		if err := p.moveToPlayed(match, dryRun); err != nil {
			log.Error("Failed to move match to played", "error", err, "matchID", match.ID)
			p.metrics.IncSweepFailures()
		}
	}
}

func (p *Processor) moveToVerifying(match *volley.Match, dryRun bool) error {
	if dryRun {
		log.Info("[Dry Run] Would move match to verifying", "matchID", match.ID)
		return nil
	}
	return p.guard.Do(match.ID, func() error {
		if err := p.store.TransitionState(match.ID, volley.StateOpen, volley.StateVerifying); err != nil {
			return err
		}
		if err := p.store.SetDeadlineProcessed(match.ID, true); err != nil {
			return err
		}
		log.Info("Match moved to verifying", "matchID", match.ID)
		return nil
	})
}

func (p *Processor) moveToPlayed(match *volley.Match, dryRun bool) error {
	if dryRun {
		log.Info("[Dry Run] Would move match to played", "matchID", match.ID)
		return nil
	}
	return p.guard.Do(match.ID, func() error {
		starters, err := p.store.GetParticipationsByStatus(match.ID, volley.ParticipationStarter)
		if err != nil {
			return err
		}
		if err := p.store.TransitionState(match.ID, volley.StateClosed, volley.StatePlayed); err != nil {
			return err
		}
		starterIDs := make([]string, 0, len(starters))
		for _, s := range starters {
			starterIDs = append(starterIDs, s.PlayerID)
		}
		if err := p.store.RecordMatchPlayed(match.GroupID, starterIDs); err != nil {
			return err
		}
		log.Info("Match played, counters updated", "matchID", match.ID, "starters", len(starterIDs))

		p.publishEvent(pubsub.EventMatchPlayed, match, "")
		if err := p.notifier.SendMatchPlayed(match, dryRun); err != nil {
			log.Error("Failed to send match played notification", "error", err, "matchID", match.ID)
		}
		return nil
	})
}

func (p *Processor) adminMatch(matchID, callerID string) (*volley.Match, error) {
	match, err := p.store.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	group, err := p.store.GetGroup(match.GroupID)
	if err != nil {
		return nil, err
	}
	if callerID != group.AdminID {
		return nil, ErrNotAdmin
	}
	return match, nil
}
