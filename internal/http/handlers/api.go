package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/processor"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/roster"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/volley"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// CreateGroupHandler registers a new group with its admin.
func CreateGroupHandler(store roster.RosterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			AdminID string `json:"admin_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if body.Name == "" || body.AdminID == "" {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "name and admin_id are required"})
			return
		}
		group := &volley.Group{
			ID:      body.ID,
			Name:    body.Name,
			AdminID: body.AdminID,
		}
		if group.ID == "" {
			group.ID = uuid.NewString()
		}
		if err := store.CreateGroup(group); err != nil {
			log.Error("Failed to create group", "error", err)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, group)
	}
}

// UpsertPlayerHandler creates or updates a player profile.
func UpsertPlayerHandler(store roster.RosterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ID                 string   `json:"id"`
			Name               string   `json:"name"`
			Commitment         float64  `json:"commitment"`
			PreferredPositions []string `json:"preferred_positions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		player := &volley.Player{
			ID:                 body.ID,
			Name:               body.Name,
			Commitment:         body.Commitment,
			PreferredPositions: body.PreferredPositions,
		}
		if player.ID == "" {
			player.ID = uuid.NewString()
		}
		if err := store.UpsertPlayer(player); err != nil {
			log.Error("Failed to upsert player", "error", err)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, player)
	}
}

// ListMatchesHandler returns matches, optionally filtered by state.
func ListMatchesHandler(store roster.RosterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var states []volley.MatchState
		if state := r.URL.Query().Get("state"); state != "" {
			states = append(states, volley.MatchState(state))
		}
		matches, err := store.ListMatchesByState(states...)
		if err != nil {
			log.Error("Failed to list matches", "error", err)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, matches)
	}
}

// CreateMatchHandler creates a new open match. Admin only.
func CreateMatchHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			GroupID      string         `json:"group_id"`
			CallerID     string         `json:"caller_id"`
			StartTime    int64          `json:"start_time"`
			Quotas       map[string]int `json:"quotas"`
			TeamCount    int            `json:"team_count"`
			SubsCapacity int            `json:"subs_capacity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		match, err := proc.CreateMatch(processor.CreateMatchInput{
			GroupID:      body.GroupID,
			CallerID:     body.CallerID,
			StartTime:    body.StartTime,
			Quotas:       body.Quotas,
			TeamCount:    body.TeamCount,
			SubsCapacity: body.SubsCapacity,
		})
		if err != nil {
			log.Error("Failed to create match", "error", err)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, match)
	}
}

// JoinHandler registers a player on an open match.
func JoinHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, ok := requireParam(w, r, "matchID")
		if !ok {
			return
		}
		playerID, ok := requireParam(w, r, "playerID")
		if !ok {
			return
		}
		isDryRun := IsDryRunFromContext(r)

		participation, err := proc.RequestJoin(matchID, playerID, isDryRun)
		if err != nil {
			if participation != nil {
				// The join was persisted but the roster recalculation was
				// skipped. A later event will pick it up.
				log.Warn("Join accepted but recalculation deferred", "error", err, "matchID", matchID)
				respondJSON(w, http.StatusAccepted, participation)
				return
			}
			log.Error("Failed to join match", "error", err, "matchID", matchID)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, participation)
	}
}

// WithdrawHandler removes a participation from a match.
func WithdrawHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participationID, ok := requireParam(w, r, "participationID")
		if !ok {
			return
		}
		isDryRun := IsDryRunFromContext(r)

		if err := proc.Withdraw(participationID, isDryRun); err != nil {
			if errors.Is(err, roster.ErrLockBusy) {
				// The withdrawal committed; the replacement and reallocation
				// run when the retry event is consumed.
				log.Warn("Withdrawal accepted but recalculation deferred", "error", err, "participationID", participationID)
				respondJSON(w, http.StatusAccepted, map[string]string{"status": "withdrawn"})
				return
			}
			log.Error("Failed to withdraw", "error", err, "participationID", participationID)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})
	}
}

// CloseMatchHandler moves a verifying match to closed.
func CloseMatchHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, ok := requireParam(w, r, "matchID")
		if !ok {
			return
		}
		callerID, ok := requireParam(w, r, "callerID")
		if !ok {
			return
		}
		if err := proc.CloseMatch(matchID, callerID); err != nil {
			log.Error("Failed to close match", "error", err, "matchID", matchID)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "closed"})
	}
}

// ReopenMatchHandler moves a verifying match back to open.
func ReopenMatchHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, ok := requireParam(w, r, "matchID")
		if !ok {
			return
		}
		callerID, ok := requireParam(w, r, "callerID")
		if !ok {
			return
		}
		if err := proc.ReopenMatch(matchID, callerID); err != nil {
			log.Error("Failed to reopen match", "error", err, "matchID", matchID)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "open"})
	}
}

// CancelMatchHandler cancels a non-terminal match.
func CancelMatchHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, ok := requireParam(w, r, "matchID")
		if !ok {
			return
		}
		callerID, ok := requireParam(w, r, "callerID")
		if !ok {
			return
		}
		if err := proc.CancelMatch(matchID, callerID); err != nil {
			log.Error("Failed to cancel match", "error", err, "matchID", matchID)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
	}
}

// TeamsHandler generates teams for a closed match (POST) or returns the
// previously generated split (GET).
func TeamsHandler(proc *processor.Processor, store roster.RosterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, ok := requireParam(w, r, "matchID")
		if !ok {
			return
		}

		if r.Method == http.MethodGet {
			set, err := store.GetTeams(matchID)
			if err != nil {
				log.Error("Failed to get teams", "error", err, "matchID", matchID)
				respondError(w, err)
				return
			}
			if set == nil {
				respondJSON(w, http.StatusNotFound, map[string]string{"error": "no teams generated for match"})
				return
			}
			respondJSON(w, http.StatusOK, set)
			return
		}

		callerID, ok := requireParam(w, r, "callerID")
		if !ok {
			return
		}
		isDryRun := IsDryRunFromContext(r)

		set, err := proc.GenerateTeams(matchID, callerID, isDryRun)
		if err != nil {
			log.Error("Failed to generate teams", "error", err, "matchID", matchID)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, set)
	}
}

// PaymentHandler updates the payment status of a participation.
func PaymentHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participationID, ok := requireParam(w, r, "participationID")
		if !ok {
			return
		}
		status, ok := requireParam(w, r, "status")
		if !ok {
			return
		}
		if err := proc.SetPaymentStatus(participationID, volley.PaymentStatus(status)); err != nil {
			log.Error("Failed to set payment status", "error", err, "participationID", participationID)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": status})
	}
}
