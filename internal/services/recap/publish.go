package recap

import (
	"context"
	"fmt"
	"time"

	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
)

// deliver runs the publish fan-out and the post-publish bookkeeping. At
// least one configured target must accept the recap; with no targets at all
// the recap is stored and the caller keeps the text.
func (s *Service) deliver(ctx context.Context, league *models.League, summary *models.WeeklySummary, text string, recapType interfaces.RecapType) error {
	delivered, targets := s.fanOut(ctx, league, summary, text, recapType)

	if targets == 0 {
		s.logger.Warn().
			Str("league_id", league.ID).
			Msg("No publish targets configured for league")
		s.storeSummary(ctx, summary)
		return nil
	}
	if delivered == 0 {
		err := fmt.Errorf("failed to publish recap to any of %d targets for league %s", targets, league.ID)
		s.emitFailed(ctx, league, recapType, summary.Week, err)
		return err
	}

	// New ranks only become the movement baseline once the league has
	// actually seen them
	if recapType == interfaces.RecapTypePowerRankings {
		s.persistRanks(ctx, league.ID, summary.PowerRankings)
	}
	s.storeSummary(ctx, summary)
	s.emitPublished(ctx, league, recapType, summary.Week, delivered, targets)
	return nil
}

// fanOut sends the recap to every configured target. A failing target is
// logged and does not stop the others.
func (s *Service) fanOut(ctx context.Context, league *models.League, summary *models.WeeklySummary, text string, recapType interfaces.RecapType) (delivered, targets int) {
	if league.GroupMeBotID != "" && s.chat != nil {
		targets++
		if err := s.chat.PublishText(ctx, league.GroupMeBotID, text); err != nil {
			s.logger.Error().
				Err(err).
				Str("league_id", league.ID).
				Str("target", "groupme").
				Msg("Failed to publish recap")
		} else {
			delivered++
			s.logger.Info().
				Str("league_id", league.ID).
				Str("target", "groupme").
				Msg("Recap published")
		}
	}

	if len(league.EmailRecipients) > 0 && s.mail != nil {
		if !s.mail.IsConfigured(ctx) {
			s.logger.Warn().
				Str("league_id", league.ID).
				Msg("Email recipients configured but SMTP is not, skipping email target")
		} else {
			targets++
			subject := fmt.Sprintf("🏈 %s - Week %d %s", league.Name, summary.Week, subjectLine(recapType))
			if err := s.mail.SendRecap(ctx, league.EmailRecipients, subject, text); err != nil {
				s.logger.Error().
					Err(err).
					Str("league_id", league.ID).
					Str("target", "email").
					Msg("Failed to publish recap")
			} else {
				delivered++
				s.logger.Info().
					Str("league_id", league.ID).
					Str("target", "email").
					Int("recipients", len(league.EmailRecipients)).
					Msg("Recap published")
			}
		}
	}

	return delivered, targets
}

func subjectLine(recapType interfaces.RecapType) string {
	switch recapType {
	case interfaces.RecapTypeWaiver:
		return "Waiver Report"
	case interfaces.RecapTypePowerRankings:
		return "Power Rankings"
	default:
		return "Weekly Recap"
	}
}

// persistRanks records the published ranks as each roster's previous-rank
// baseline for the next run
func (s *Service) persistRanks(ctx context.Context, leagueID string, rankings []models.PowerRankingEntry) {
	if len(rankings) == 0 {
		return
	}

	ranks := make(map[int]int, len(rankings))
	for _, entry := range rankings {
		ranks[entry.RosterID] = entry.Rank
	}

	if err := s.storage.RosterStorage().UpdatePreviousRanks(ctx, leagueID, ranks); err != nil {
		s.logger.Error().
			Err(err).
			Str("league_id", leagueID).
			Msg("Failed to persist power ranking baselines")
		return
	}

	s.logger.Debug().
		Str("league_id", leagueID).
		Int("rosters", len(ranks)).
		Msg("Power ranking baselines updated")
}

// storeSummary keeps the published summary for the admin API and PDF export.
// Storage failure is logged but never fails a recap that already went out.
func (s *Service) storeSummary(ctx context.Context, summary *models.WeeklySummary) {
	if err := s.storage.SummaryStorage().SaveSummary(ctx, summary); err != nil {
		s.logger.Error().
			Err(err).
			Str("league_id", summary.LeagueID).
			Int("week", summary.Week).
			Msg("Failed to store weekly summary")
	}
}

// paraphrase rewrites recap text in the persona's voice. Any failure falls
// back to the deterministic text.
func (s *Service) paraphrase(ctx context.Context, text string, summary *models.WeeklySummary, persona interfaces.Persona) string {
	if s.writer == nil || persona == "" {
		return text
	}
	if !interfaces.IsValidPersona(persona) {
		s.logger.Warn().
			Str("persona", string(persona)).
			Msg("Unknown persona, using deterministic recap text")
		return text
	}

	rewritten, err := s.writer.Rewrite(ctx, text, summary, persona)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("provider", s.writer.Provider()).
			Msg("LLM rewrite failed, using deterministic recap text")
		return text
	}
	return rewritten
}

func (s *Service) paraphraseWaiver(ctx context.Context, text string, persona interfaces.Persona) string {
	if s.writer == nil || persona == "" {
		return text
	}
	if !interfaces.IsValidPersona(persona) {
		s.logger.Warn().
			Str("persona", string(persona)).
			Msg("Unknown persona, using deterministic recap text")
		return text
	}

	rewritten, err := s.writer.RewriteWaiver(ctx, text, persona)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("provider", s.writer.Provider()).
			Msg("LLM rewrite failed, using deterministic recap text")
		return text
	}
	return rewritten
}

func (s *Service) emitGenerated(ctx context.Context, league *models.League, recapType interfaces.RecapType, week, textLen int) {
	s.emit(ctx, interfaces.EventRecapGenerated, map[string]interface{}{
		"league_id":   league.ID,
		"league_name": league.Name,
		"recap_type":  string(recapType),
		"week":        week,
		"text_length": textLen,
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

func (s *Service) emitPublished(ctx context.Context, league *models.League, recapType interfaces.RecapType, week, delivered, targets int) {
	s.emit(ctx, interfaces.EventRecapPublished, map[string]interface{}{
		"league_id":   league.ID,
		"league_name": league.Name,
		"recap_type":  string(recapType),
		"week":        week,
		"delivered":   delivered,
		"targets":     targets,
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

func (s *Service) emitFailed(ctx context.Context, league *models.League, recapType interfaces.RecapType, week int, cause error) {
	s.emit(ctx, interfaces.EventRecapFailed, map[string]interface{}{
		"league_id":  league.ID,
		"recap_type": string(recapType),
		"week":       week,
		"error":      cause.Error(),
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

func (s *Service) emit(ctx context.Context, eventType interfaces.EventType, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		s.logger.Warn().
			Err(err).
			Str("event_type", string(eventType)).
			Msg("Failed to publish recap event")
	}
}
