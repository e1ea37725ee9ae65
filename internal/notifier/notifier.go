package notifier

import "github.com/RodolfoRXXX/project-voley-sub000/internal/volley"

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// SendRosterNotification announces the current starters and substitutes
	// after an allocation run.
	SendRosterNotification(match *volley.Match, starters, substitutes []*volley.Participation, players map[string]*volley.Player, dryRun bool) error
	// SendVacancyAlert tells the organizer that a starter position is vacant
	// and no eligible substitute exists. This is a steady state needing human
	// follow-up, not a failure.
	SendVacancyAlert(match *volley.Match, position string, dryRun bool) error
	// SendTeamsNotification announces a freshly generated team split.
	SendTeamsNotification(match *volley.Match, set *volley.TeamSet, players map[string]*volley.Player, dryRun bool) error
	// SendMatchPlayed announces a completed match.
	SendMatchPlayed(match *volley.Match, dryRun bool) error
}
