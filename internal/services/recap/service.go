// Package recap orchestrates the pipeline from stored league data to a
// published weekly recap: summary generation, rendering, optional LLM
// paraphrase, delivery fan-out, and rank persistence.
package recap

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
)

// Service implements interfaces.RecapService. The writer, chat, and mail
// dependencies are optional: a nil writer skips LLM paraphrasing, and a nil
// publisher removes that delivery target.
type Service struct {
	storage  interfaces.StorageManager
	summary  interfaces.SummaryService
	renderer interfaces.RenderService
	writer   interfaces.RecapWriter
	chat     interfaces.ChatPublisher
	mail     interfaces.MailPublisher
	events   interfaces.EventService
	logger   arbor.ILogger
}

var _ interfaces.RecapService = (*Service)(nil)

// NewService creates a new recap service
func NewService(
	storage interfaces.StorageManager,
	summaryService interfaces.SummaryService,
	renderService interfaces.RenderService,
	writer interfaces.RecapWriter,
	chat interfaces.ChatPublisher,
	mail interfaces.MailPublisher,
	eventService interfaces.EventService,
	logger arbor.ILogger,
) interfaces.RecapService {
	return &Service{
		storage:  storage,
		summary:  summaryService,
		renderer: renderService,
		writer:   writer,
		chat:     chat,
		mail:     mail,
		events:   eventService,
		logger:   logger,
	}
}

// GeneratePowerRankingsRecap runs the weekly power rankings flow for one
// league. The review week is the most recently completed one; on successful
// delivery the new ranks become each roster's previous-rank baseline.
func (s *Service) GeneratePowerRankingsRecap(ctx context.Context, leagueID string) (string, error) {
	league, err := s.storage.LeagueStorage().GetLeague(ctx, leagueID)
	if err != nil {
		return "", fmt.Errorf("failed to load league %s: %w", leagueID, err)
	}
	if !league.PowerRankingsEnabled {
		return "", fmt.Errorf("power rankings disabled for league %s", leagueID)
	}

	week := reviewWeek(league)
	s.logger.Info().
		Str("league_id", leagueID).
		Int("week", week).
		Msg("Generating power rankings recap")

	summary, err := s.summary.GenerateWeeklySummary(ctx, leagueID, week)
	if err != nil {
		s.emitFailed(ctx, league, interfaces.RecapTypePowerRankings, week, err)
		return "", fmt.Errorf("failed to generate summary for week %d: %w", week, err)
	}

	text := s.renderer.RenderRecap(summary, resolveStyle(league, ""))
	text = s.paraphrase(ctx, text, summary, resolvePersona(league, ""))
	text = fmt.Sprintf("🏆 POWER RANKINGS - %s Week %d\n\n", league.Name, week) + text

	s.emitGenerated(ctx, league, interfaces.RecapTypePowerRankings, week, len(text))

	if err := s.deliver(ctx, league, summary, text, interfaces.RecapTypePowerRankings); err != nil {
		return "", err
	}
	return text, nil
}

// GenerateWaiverRecap runs the waiver report flow for one league's current
// week. A week with no transactions short-circuits to a canned message that
// is returned but never published.
func (s *Service) GenerateWaiverRecap(ctx context.Context, leagueID string) (string, error) {
	league, err := s.storage.LeagueStorage().GetLeague(ctx, leagueID)
	if err != nil {
		return "", fmt.Errorf("failed to load league %s: %w", leagueID, err)
	}
	if !league.WaiverRecapEnabled {
		return "", fmt.Errorf("waiver recaps disabled for league %s", leagueID)
	}

	week := currentWeek(league)
	s.logger.Info().
		Str("league_id", leagueID).
		Int("week", week).
		Msg("Generating waiver recap")

	summary, err := s.summary.GenerateWeeklySummary(ctx, leagueID, week)
	if err != nil {
		s.emitFailed(ctx, league, interfaces.RecapTypeWaiver, week, err)
		return "", fmt.Errorf("failed to generate summary for week %d: %w", week, err)
	}

	if len(summary.Transactions) == 0 {
		s.logger.Info().
			Str("league_id", leagueID).
			Int("week", week).
			Msg("No waiver activity this week, skipping publish")
		return emptyWaiverReport(league.Name, week), nil
	}

	text := s.renderer.RenderWaiverRecap(summary)
	text = s.paraphraseWaiver(ctx, text, resolvePersona(league, ""))

	s.emitGenerated(ctx, league, interfaces.RecapTypeWaiver, week, len(text))

	if err := s.deliver(ctx, league, summary, text, interfaces.RecapTypeWaiver); err != nil {
		return "", err
	}
	return text, nil
}

// GenerateRecap runs a recap with caller-chosen options. It skips the
// per-league feature flags so a commissioner can always trigger a one-off,
// and it only publishes when the request asks for it.
func (s *Service) GenerateRecap(ctx context.Context, leagueID string, req interfaces.RecapRequest) (string, error) {
	league, err := s.storage.LeagueStorage().GetLeague(ctx, leagueID)
	if err != nil {
		return "", fmt.Errorf("failed to load league %s: %w", leagueID, err)
	}

	recapType := req.Type
	if recapType == "" {
		recapType = interfaces.RecapTypePowerRankings
	}

	var week int
	switch recapType {
	case interfaces.RecapTypePowerRankings:
		week = reviewWeek(league)
	case interfaces.RecapTypeWaiver:
		week = currentWeek(league)
	default:
		return "", fmt.Errorf("invalid recap type '%s': must be 'power_rankings' or 'waiver'", recapType)
	}
	if req.Week > 0 {
		week = req.Week
	}

	s.logger.Info().
		Str("league_id", leagueID).
		Str("recap_type", string(recapType)).
		Int("week", week).
		Bool("publish", req.Publish).
		Msg("Generating custom recap")

	summary, err := s.summary.GenerateWeeklySummary(ctx, leagueID, week)
	if err != nil {
		s.emitFailed(ctx, league, recapType, week, err)
		return "", fmt.Errorf("failed to generate summary for week %d: %w", week, err)
	}

	var text string
	if recapType == interfaces.RecapTypeWaiver {
		if len(summary.Transactions) == 0 {
			return emptyWaiverReport(league.Name, week), nil
		}
		text = s.renderer.RenderWaiverRecap(summary)
		text = s.paraphraseWaiver(ctx, text, resolvePersona(league, req.Persona))
	} else {
		text = s.renderer.RenderRecap(summary, resolveStyle(league, req.Style))
		text = s.paraphrase(ctx, text, summary, resolvePersona(league, req.Persona))
	}

	s.emitGenerated(ctx, league, recapType, week, len(text))

	if !req.Publish {
		return text, nil
	}
	if err := s.deliver(ctx, league, summary, text, recapType); err != nil {
		return "", err
	}
	return text, nil
}

// RunScheduledPowerRankings runs the power rankings flow for every enabled
// in-season league. Per-league failures are logged and do not stop the sweep.
func (s *Service) RunScheduledPowerRankings(ctx context.Context) error {
	leagues, err := s.storage.LeagueStorage().ListRecapLeagues(ctx)
	if err != nil {
		return fmt.Errorf("failed to list recap leagues: %w", err)
	}

	var ran, failed int
	for _, league := range leagues {
		if !league.PowerRankingsEnabled {
			continue
		}
		ran++
		if _, err := s.GeneratePowerRankingsRecap(ctx, league.ID); err != nil {
			failed++
			s.logger.Error().
				Err(err).
				Str("league_id", league.ID).
				Msg("Scheduled power rankings run failed")
		}
	}

	s.logger.Info().
		Int("leagues", ran).
		Int("failed", failed).
		Msg("Scheduled power rankings sweep complete")

	if failed > 0 {
		return fmt.Errorf("power rankings failed for %d of %d leagues", failed, ran)
	}
	return nil
}

// RunScheduledWaiverRecaps runs the waiver flow for every enabled in-season
// league
func (s *Service) RunScheduledWaiverRecaps(ctx context.Context) error {
	leagues, err := s.storage.LeagueStorage().ListRecapLeagues(ctx)
	if err != nil {
		return fmt.Errorf("failed to list recap leagues: %w", err)
	}

	var ran, failed int
	for _, league := range leagues {
		if !league.WaiverRecapEnabled {
			continue
		}
		ran++
		if _, err := s.GenerateWaiverRecap(ctx, league.ID); err != nil {
			failed++
			s.logger.Error().
				Err(err).
				Str("league_id", league.ID).
				Msg("Scheduled waiver recap run failed")
		}
	}

	s.logger.Info().
		Int("leagues", ran).
		Int("failed", failed).
		Msg("Scheduled waiver recap sweep complete")

	if failed > 0 {
		return fmt.Errorf("waiver recaps failed for %d of %d leagues", failed, ran)
	}
	return nil
}

// reviewWeek is the most recently completed week. Week 1 reviews itself
// until week 2 starts.
func reviewWeek(league *models.League) int {
	if league.CurrentWeek <= 1 {
		return 1
	}
	return league.CurrentWeek - 1
}

func currentWeek(league *models.League) int {
	if league.CurrentWeek < 1 {
		return 1
	}
	return league.CurrentWeek
}

// resolveStyle picks the render style: request override first, then the
// league setting, then standard. Unknown styles are ignored.
func resolveStyle(league *models.League, override string) interfaces.RenderStyle {
	if override != "" && interfaces.IsValidRenderStyle(interfaces.RenderStyle(override)) {
		return interfaces.RenderStyle(override)
	}
	if league.RenderStyle != "" && interfaces.IsValidRenderStyle(interfaces.RenderStyle(league.RenderStyle)) {
		return interfaces.RenderStyle(league.RenderStyle)
	}
	return interfaces.RenderStyleStandard
}

// resolvePersona picks the paraphrase persona, request override first. Empty
// means no paraphrasing.
func resolvePersona(league *models.League, override string) interfaces.Persona {
	if override != "" {
		return interfaces.Persona(override)
	}
	return interfaces.Persona(league.Persona)
}

func emptyWaiverReport(leagueName string, week int) string {
	return fmt.Sprintf("📄 %s Week %d Waiver Report\n\nNo waiver activity this week. Everyone's happy with their teams... or gave up. 🤷‍♂️", leagueName, week)
}
