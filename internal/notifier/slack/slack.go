package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/metrics"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/notifier"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/volley"
	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) error {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

// SendRosterNotification announces the allocation outcome for a match.
func (s *Notifier) SendRosterNotification(match *volley.Match, starters, substitutes []*volley.Participation, players map[string]*volley.Player, dryRun bool) error {
	msg := s.formatRoster(match, starters, substitutes, players)
	return s.sendMessage(msg, dryRun)
}

// SendVacancyAlert tells the organizer a position is vacant with no eligible substitute.
func (s *Notifier) SendVacancyAlert(match *volley.Match, position string, dryRun bool) error {
	msg := s.formatVacancyAlert(match, position)
	return s.sendMessage(msg, dryRun)
}

// SendTeamsNotification announces a generated team split.
func (s *Notifier) SendTeamsNotification(match *volley.Match, set *volley.TeamSet, players map[string]*volley.Player, dryRun bool) error {
	msg := s.formatTeams(match, set, players)
	return s.sendMessage(msg, dryRun)
}

// SendMatchPlayed announces a completed match.
func (s *Notifier) SendMatchPlayed(match *volley.Match, dryRun bool) error {
	msg := s.formatMatchPlayed(match)
	return s.sendMessage(msg, dryRun)
}

func playerName(players map[string]*volley.Player, playerID string) string {
	if p, ok := players[playerID]; ok && p.Name != "" {
		return p.Name
	}
	return playerID
}

func matchTimeString(match *volley.Match) string {
	return time.Unix(match.StartTime, 0).Format("Monday 02 Jan, 15:04")
}

// formatRoster creates the Slack message for an updated roster using Block Kit.
func (s *Notifier) formatRoster(match *volley.Match, starters, substitutes []*volley.Participation, players map[string]*volley.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏐 Roster updated!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Match on %s", matchTimeString(match))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	var starterLines []string
	for _, p := range starters {
		starterLines = append(starterLines, fmt.Sprintf("• %s (%s)", playerName(players, p.PlayerID), p.Position))
	}
	if len(starterLines) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Starters:\n"+strings.Join(starterLines, "\n"), true, false), nil, nil))
	}

	var subLines []string
	for _, p := range substitutes {
		subLines = append(subLines, fmt.Sprintf("• %s", playerName(players, p.PlayerID)))
	}
	if len(subLines) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Substitutes:\n"+strings.Join(subLines, "\n"), true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatVacancyAlert creates the Slack message for an unfilled starter position.
func (s *Notifier) formatVacancyAlert(match *volley.Match, position string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⚠️ Position vacant", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	body := fmt.Sprintf("A starter withdrew from the match on %s and no substitute lists %s among their preferred positions. The slot stays open until someone suitable joins.",
		matchTimeString(match), position)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", body, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatTeams creates the Slack message announcing the generated teams.
func (s *Notifier) formatTeams(match *volley.Match, set *volley.TeamSet, players map[string]*volley.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏐 Teams are set!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Match on %s", matchTimeString(match))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	for _, team := range set.Teams {
		var lines []string
		for _, slot := range team.Slots {
			lines = append(lines, fmt.Sprintf("• %s (%s)", playerName(players, slot.PlayerID), slot.Position))
		}
		teamText := team.Name + ":\n" + strings.Join(lines, "\n")
		if len(lines) == 0 {
			teamText = team.Name + ": (empty)"
		}
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", teamText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatMatchPlayed creates the Slack message for a completed match.
func (s *Notifier) formatMatchPlayed(match *volley.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏐 Match played!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	body := fmt.Sprintf("The match on %s is done. Played counters have been updated.", matchTimeString(match))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", body, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}
