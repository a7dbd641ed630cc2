package summary

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
)

// Service derives weekly analytics from stored league state. Every method is
// a pure read: nothing here persists ranks or summaries, so the derivations
// stay deterministic and independently testable. Callers that publish a
// recap are responsible for writing the new rank baseline back afterwards.
type Service struct {
	leagueStorage      interfaces.LeagueStorage
	rosterStorage      interfaces.RosterStorage
	matchupStorage     interfaces.MatchupStorage
	transactionStorage interfaces.TransactionStorage
	logger             arbor.ILogger
}

// NewService creates a new summary service
func NewService(
	leagueStorage interfaces.LeagueStorage,
	rosterStorage interfaces.RosterStorage,
	matchupStorage interfaces.MatchupStorage,
	transactionStorage interfaces.TransactionStorage,
	logger arbor.ILogger,
) interfaces.SummaryService {
	return &Service{
		leagueStorage:      leagueStorage,
		rosterStorage:      rosterStorage,
		matchupStorage:     matchupStorage,
		transactionStorage: transactionStorage,
		logger:             logger,
	}
}

// GenerateWeeklySummary builds the complete summary for a league week by
// composing performances, power rankings, and transaction digests
func (s *Service) GenerateWeeklySummary(ctx context.Context, leagueID string, week int) (*models.WeeklySummary, error) {
	league, err := s.leagueStorage.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load league: %w", err)
	}

	rosters, err := s.rosterStorage.GetRostersByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rosters: %w", err)
	}
	rosterMap := rostersByID(rosters)

	matchups, err := s.matchupStorage.GetMatchupsByWeek(ctx, leagueID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load matchups: %w", err)
	}

	performances := buildPerformances(matchups, rosterMap)
	if len(performances) == 0 {
		return nil, fmt.Errorf("no matchup results for league %s week %d", leagueID, week)
	}

	highest := performances[0]
	lowest := performances[0]
	for _, p := range performances[1:] {
		if p.PointsScored > highest.PointsScored {
			highest = p
		}
		if p.PointsScored < lowest.PointsScored {
			lowest = p
		}
	}

	biggestBlowout, closestMatchup := selectMatchupExtremes(performances)

	rankings := buildPowerRankings(rosters)
	climber, fall := selectMovers(rankings)

	transactions, err := s.transactionStorage.GetTransactionsByWeek(ctx, leagueID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	txSummaries := buildTransactionSummaries(transactions, rosterMap)

	totalFAAB := 0
	for _, t := range txSummaries {
		if t.FAABSpent != nil {
			totalFAAB += *t.FAABSpent
		}
	}

	totalPoints := 0.0
	for _, p := range performances {
		totalPoints += p.PointsScored
	}

	s.logger.Info().
		Str("league_id", leagueID).
		Int("week", week).
		Int("performances", len(performances)).
		Int("rankings", len(rankings)).
		Int("transactions", len(txSummaries)).
		Msg("Generated weekly summary")

	return &models.WeeklySummary{
		LeagueID:         league.ID,
		LeagueName:       league.Name,
		Week:             week,
		Season:           league.Season,
		Performances:     performances,
		HighestScorer:    highest,
		LowestScorer:     lowest,
		BiggestBlowout:   biggestBlowout,
		ClosestMatchup:   closestMatchup,
		PowerRankings:    rankings,
		BiggestClimber:   climber,
		BiggestFall:      fall,
		Transactions:     txSummaries,
		TotalFAABSpent:   totalFAAB,
		MostActiveTrader: mostActiveTrader(txSummaries),
		AverageScore:     averageScore(performances, totalPoints),
		TotalPoints:      totalPoints,
		PlayoffPicture:   playoffPicture(rankings),
	}, nil
}

// CalculatePowerRankings ranks every roster in the league by power score
func (s *Service) CalculatePowerRankings(ctx context.Context, leagueID string) ([]models.PowerRankingEntry, error) {
	rosters, err := s.rosterStorage.GetRostersByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rosters: %w", err)
	}
	return buildPowerRankings(rosters), nil
}

// SummarizeTransactions digests one week of raw transactions
func (s *Service) SummarizeTransactions(ctx context.Context, leagueID string, week int) ([]models.TransactionSummary, error) {
	transactions, err := s.transactionStorage.GetTransactionsByWeek(ctx, leagueID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	rosters, err := s.rosterStorage.GetRostersByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rosters: %w", err)
	}

	return buildTransactionSummaries(transactions, rostersByID(rosters)), nil
}

// selectMatchupExtremes picks the biggest blowout and the closest matchup.
// Candidate pairs are winning performances matched back to the losing side
// by team name. When no wins exist the first two records pair positionally,
// a degenerate fallback kept for weeks with no decided games.
func selectMatchupExtremes(performances []models.PerformanceRecord) (models.MatchupResult, models.MatchupResult) {
	type pairing struct {
		winner models.PerformanceRecord
		loser  models.PerformanceRecord
	}

	var pairs []pairing
	for _, p := range performances {
		if !p.Win {
			continue
		}
		for _, p2 := range performances {
			if p2.RosterID != p.RosterID && p2.OpponentName == p.TeamName {
				pairs = append(pairs, pairing{winner: p, loser: p2})
				break
			}
		}
	}

	if len(pairs) == 0 {
		fallback := models.MatchupResult{Winner: performances[0], Loser: performances[1]}
		return fallback, fallback
	}

	biggest := pairs[0]
	closest := pairs[0]
	for _, pr := range pairs[1:] {
		if pr.winner.Margin > biggest.winner.Margin {
			biggest = pr
		}
		if pr.winner.Margin < closest.winner.Margin {
			closest = pr
		}
	}

	return models.MatchupResult{Winner: biggest.winner, Loser: biggest.loser},
		models.MatchupResult{Winner: closest.winner, Loser: closest.loser}
}

// selectMovers finds the biggest climber (max positive movement) and the
// biggest fall (max magnitude negative movement). Either is nil when no
// entry moved in that direction. Ties keep the first entry in rank order.
func selectMovers(rankings []models.PowerRankingEntry) (*models.PowerRankingEntry, *models.PowerRankingEntry) {
	var climber, fall *models.PowerRankingEntry

	for i := range rankings {
		entry := &rankings[i]
		if entry.Movement > 0 && (climber == nil || entry.Movement > climber.Movement) {
			climber = entry
		}
		if entry.Movement < 0 && (fall == nil || -entry.Movement > -fall.Movement) {
			fall = entry
		}
	}

	if climber != nil {
		c := *climber
		climber = &c
	}
	if fall != nil {
		f := *fall
		fall = &f
	}
	return climber, fall
}

// mostActiveTrader returns the owner with the most transactions this week.
// Ties resolve to whichever owner appeared first in the transaction list.
// Nil when there were no transactions at all.
func mostActiveTrader(transactions []models.TransactionSummary) *string {
	if len(transactions) == 0 {
		return nil
	}

	counts := make(map[string]int, len(transactions))
	var order []string
	for _, t := range transactions {
		if _, seen := counts[t.OwnerName]; !seen {
			order = append(order, t.OwnerName)
		}
		counts[t.OwnerName]++
	}

	best := order[0]
	for _, owner := range order[1:] {
		if counts[owner] > counts[best] {
			best = owner
		}
	}
	return &best
}

// averageScore divides total points across performances, returning 0 for an
// empty week rather than dividing by zero
func averageScore(performances []models.PerformanceRecord, totalPoints float64) float64 {
	if len(performances) == 0 {
		return 0
	}
	return totalPoints / float64(len(performances))
}

// playoffPicture returns the top six team names by rank. Rankings arrive
// already rank-ordered, so this is a prefix.
func playoffPicture(rankings []models.PowerRankingEntry) []string {
	limit := 6
	if len(rankings) < limit {
		limit = len(rankings)
	}

	teams := make([]string, 0, limit)
	for _, entry := range rankings[:limit] {
		teams = append(teams, entry.TeamName)
	}
	return teams
}
