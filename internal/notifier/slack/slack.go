package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cue-league/internal/league"
	"github.com/mauv0809/cue-league/internal/notifier"
	"github.com/slack-go/slack"
)

// leaderboardSize is the number of players shown in a leaderboard post.
const leaderboardSize = 10

const timeLayout = "Monday 02 Jan, 15:04"

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Metrics defines the counters the notifier reports.
type Metrics interface {
	IncSlackNotifSent()
	IncSlackNotifFailed()
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   Metrics
	location  *time.Location
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		location:  time.UTC,
	}
}

// WithLocation sets the time zone used to render match times.
func (s *Notifier) WithLocation(loc *time.Location) *Notifier {
	s.location = loc
	return s
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
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
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendMatchScheduled(match *league.Match, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatMatchScheduled(match), dryRun)
	return err
}

func (s *Notifier) SendMatchResult(match *league.Match, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatMatchResult(match), dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(players []league.Player, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatLeaderboard(players), dryRun)
	return err
}

func plainSection(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil)
}

func (s *Notifier) formatMatchScheduled(match *league.Match) slack.Message {
	blocks := make([]slack.Block, 0, 3)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "🎱 New match booked! 🎱", true, false)))

	details := fmt.Sprintf("%s vs %s\nTime: %s", match.Player1Name, match.Player2Name, match.StartTime.In(s.location).Format(timeLayout))
	if match.TableNumber != nil {
		details += fmt.Sprintf("\nTable: %d", *match.TableNumber)
	}
	blocks = append(blocks, plainSection(details))

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatMatchResult(match *league.Match) slack.Message {
	blocks := make([]slack.Block, 0, 3)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "🎱 Match finished! 🎱", true, false)))

	blocks = append(blocks, plainSection(fmt.Sprintf("%s vs %s", match.Player1Name, match.Player2Name)))

	if match.WinnerID == nil {
		blocks = append(blocks, plainSection("Result: No winner reported."))
		return slack.NewBlockMessage(blocks...)
	}

	winner := match.Player1Name
	if *match.WinnerID == match.Player2ID {
		winner = match.Player2Name
	}
	if match.WinnerName != nil {
		winner = *match.WinnerName
	}
	blocks = append(blocks, plainSection(fmt.Sprintf("Result: %s won! 🏆", winner)))

	if match.EndTime != nil {
		played := match.EndTime.Sub(match.StartTime).Round(time.Minute)
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", fmt.Sprintf("Played in %s", played), true, false)))
	}
	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatLeaderboard(players []league.Player) slack.Message {
	return LeaderboardMessage(players)
}

// LeaderboardMessage renders the top of the ranking.
func LeaderboardMessage(players []league.Player) slack.Message {
	blocks := make([]slack.Block, 0, 2)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "🏆 League Ranking 🏆", true, false)))

	if len(players) == 0 {
		blocks = append(blocks, plainSection("No players yet. Go book some matches!"))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	for i, p := range players {
		if i == leaderboardSize {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s%s: %d pts (%dW/%dL)", i+1, medal(i+1), p.Name, p.Ranking, p.Wins, p.Losses))
	}
	blocks = append(blocks, plainSection(strings.Join(lines, "\n")))

	return slack.NewBlockMessage(blocks...)
}

// PlayerStatsMessage renders one player's line of the ranking. position is 1-based.
func PlayerStatsMessage(p league.Player, position int) slack.Message {
	header := slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", fmt.Sprintf("🎱 %s", p.Name), true, false))
	played := p.Wins + p.Losses
	winRate := 0.0
	if played > 0 {
		winRate = float64(p.Wins) / float64(played) * 100
	}
	body := fmt.Sprintf("Position: %s%d\nRanking: %d pts\nWins: %d\nLosses: %d\nWin rate: %.0f%%",
		medal(position), position, p.Ranking, p.Wins, p.Losses, winRate)
	if p.PreferredCue != nil && *p.PreferredCue != "" {
		body += fmt.Sprintf("\nCue: %s", *p.PreferredCue)
	}
	return slack.NewBlockMessage(header, plainSection(body))
}

// PlayerNotFoundMessage answers a stats lookup that matched nobody.
func PlayerNotFoundMessage(query string) slack.Message {
	return slack.NewBlockMessage(plainSection(fmt.Sprintf("No player named %q was found.", query)))
}

func medal(position int) string {
	switch position {
	case 1:
		return "🥇 "
	case 2:
		return "🥈 "
	case 3:
		return "🥉 "
	}
	return ""
}
