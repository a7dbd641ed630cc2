package summary

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/common"
	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
	"github.com/kforero17/aicommissioner/internal/storage/badger"
)

func newTestService(t *testing.T) (interfaces.SummaryService, interfaces.StorageManager) {
	t.Helper()

	logger := arbor.NewLogger()
	manager, err := badger.NewManager(logger, &common.BadgerConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() { manager.Close() })

	svc := NewService(
		manager.LeagueStorage(),
		manager.RosterStorage(),
		manager.MatchupStorage(),
		manager.TransactionStorage(),
		logger,
	)
	return svc, manager
}

// seedLeague stores a four-team league with week 3 matchups and transactions
func seedLeague(t *testing.T, manager interfaces.StorageManager) string {
	t.Helper()
	ctx := context.Background()

	leagueID := models.LeagueID(models.PlatformSleeper, "991")
	league := &models.League{
		ID:          leagueID,
		Platform:    models.PlatformSleeper,
		ExternalID:  "991",
		Name:        "Dynasty Degens",
		Season:      "2025",
		CurrentWeek: 4,
		NumTeams:    4,
		Status:      models.LeagueStatusInSeason,
	}
	if err := manager.LeagueStorage().SaveLeague(ctx, league); err != nil {
		t.Fatalf("failed to save league: %v", err)
	}

	rosters := []*models.Roster{
		{RosterID: 1, TeamName: "Gridiron Gang", OwnerName: "Alice", Wins: 3, PointsFor: 400, PointsAgainst: 310, PowerRankPrevious: 2},
		{RosterID: 2, TeamName: "Waiver Wizards", OwnerName: "Bob", Wins: 2, Losses: 1, PointsFor: 350, PointsAgainst: 330, PowerRankPrevious: 1},
		{RosterID: 3, TeamName: "Bench Warmers", OwnerName: "Cara", Wins: 1, Losses: 2, PointsFor: 300, PointsAgainst: 340, PowerRankPrevious: 3},
		{RosterID: 4, Losses: 3, PointsFor: 250, PointsAgainst: 360},
	}
	for _, r := range rosters {
		r.ID = models.RosterKey(leagueID, r.RosterID)
		r.LeagueID = leagueID
	}
	if err := manager.RosterStorage().SaveRosters(ctx, rosters); err != nil {
		t.Fatalf("failed to save rosters: %v", err)
	}

	matchups := []*models.Matchup{
		{
			MatchupID:      1,
			Team1RosterID:  1,
			Team2RosterID:  intPtr(2),
			Team1Points:    120.5,
			Team2Points:    95.25,
			WinnerRosterID: intPtr(1),
			IsCompleted:    true,
		},
		{
			MatchupID:      2,
			Team1RosterID:  3,
			Team2RosterID:  intPtr(4),
			Team1Points:    101.0,
			Team2Points:    99.0,
			WinnerRosterID: intPtr(3),
			IsCompleted:    true,
		},
	}
	for _, m := range matchups {
		m.ID = models.MatchupKey(leagueID, 3, m.MatchupID)
		m.LeagueID = leagueID
		m.Week = 3
	}
	if err := manager.MatchupStorage().SaveMatchups(ctx, matchups); err != nil {
		t.Fatalf("failed to save matchups: %v", err)
	}

	base := time.Date(2025, 9, 16, 8, 0, 0, 0, time.UTC)
	transactions := []*models.Transaction{
		{
			ExternalID:     "t1",
			Week:           3,
			Type:           models.TransactionTypeWaiver,
			RosterID:       2,
			PlayersAdded:   json.RawMessage(`[{"name": "Puka Nacua"}]`),
			PlayersDropped: json.RawMessage(`["Zach Ertz"]`),
			FAABBid:        intPtr(23),
			CreatedAt:      base,
		},
		{
			ExternalID:   "t2",
			Week:         3,
			Type:         models.TransactionTypeAdd,
			RosterID:     2,
			PlayersAdded: json.RawMessage(`[{"full_name": "Jake Browning"}]`),
			CreatedAt:    base.Add(time.Hour),
		},
		{
			ExternalID:   "t3",
			Week:         3,
			Type:         models.TransactionTypeFreeAgent,
			RosterID:     3,
			PlayersAdded: json.RawMessage(`["Dare Ogunbowale"]`),
			CreatedAt:    base.Add(2 * time.Hour),
		},
		{
			ExternalID:     "t4",
			Week:           3,
			Type:           models.TransactionTypeDrop,
			RosterID:       9,
			PlayersDropped: json.RawMessage(`[{"name": "Gus Edwards"}]`),
			CreatedAt:      base.Add(3 * time.Hour),
		},
		{
			// Different week, must not appear in week 3 results
			ExternalID:   "t0",
			Week:         2,
			Type:         models.TransactionTypeAdd,
			RosterID:     1,
			PlayersAdded: json.RawMessage(`["Tyler Boyd"]`),
			CreatedAt:    base.Add(-7 * 24 * time.Hour),
		},
	}
	for _, tx := range transactions {
		tx.ID = models.TransactionKey(leagueID, tx.ExternalID)
		tx.LeagueID = leagueID
	}
	if err := manager.TransactionStorage().SaveTransactions(ctx, transactions); err != nil {
		t.Fatalf("failed to save transactions: %v", err)
	}

	return leagueID
}

// TestGenerateWeeklySummary verifies the full aggregation over seeded data
func TestGenerateWeeklySummary(t *testing.T) {
	svc, manager := newTestService(t)
	leagueID := seedLeague(t, manager)

	summary, err := svc.GenerateWeeklySummary(context.Background(), leagueID, 3)
	if err != nil {
		t.Fatalf("GenerateWeeklySummary failed: %v", err)
	}

	if summary.LeagueID != leagueID || summary.LeagueName != "Dynasty Degens" {
		t.Errorf("league identity = %q / %q", summary.LeagueID, summary.LeagueName)
	}
	if summary.Week != 3 || summary.Season != "2025" {
		t.Errorf("week/season = %d / %q", summary.Week, summary.Season)
	}

	if len(summary.Performances) != 4 {
		t.Fatalf("expected 4 performances, got %d", len(summary.Performances))
	}
	if summary.HighestScorer.RosterID != 1 || summary.HighestScorer.PointsScored != 120.5 {
		t.Errorf("highest scorer = roster %d with %v", summary.HighestScorer.RosterID, summary.HighestScorer.PointsScored)
	}
	if summary.LowestScorer.RosterID != 2 || summary.LowestScorer.PointsScored != 95.25 {
		t.Errorf("lowest scorer = roster %d with %v", summary.LowestScorer.RosterID, summary.LowestScorer.PointsScored)
	}

	if summary.BiggestBlowout.Winner.RosterID != 1 || summary.BiggestBlowout.Loser.RosterID != 2 {
		t.Errorf("biggest blowout = %d over %d", summary.BiggestBlowout.Winner.RosterID, summary.BiggestBlowout.Loser.RosterID)
	}
	if summary.ClosestMatchup.Winner.RosterID != 3 || summary.ClosestMatchup.Loser.RosterID != 4 {
		t.Errorf("closest matchup = %d over %d", summary.ClosestMatchup.Winner.RosterID, summary.ClosestMatchup.Loser.RosterID)
	}

	wantOrder := []int{1, 2, 3, 4}
	if len(summary.PowerRankings) != 4 {
		t.Fatalf("expected 4 ranking entries, got %d", len(summary.PowerRankings))
	}
	for i, want := range wantOrder {
		if summary.PowerRankings[i].RosterID != want {
			t.Errorf("rank %d = roster %d, want %d", i+1, summary.PowerRankings[i].RosterID, want)
		}
	}

	if summary.BiggestClimber == nil || summary.BiggestClimber.RosterID != 1 {
		t.Errorf("biggest climber = %+v, want roster 1", summary.BiggestClimber)
	}
	if summary.BiggestFall == nil || summary.BiggestFall.RosterID != 2 {
		t.Errorf("biggest fall = %+v, want roster 2", summary.BiggestFall)
	}

	if len(summary.Transactions) != 4 {
		t.Fatalf("expected 4 week-3 transactions, got %d", len(summary.Transactions))
	}
	if summary.Transactions[0].Notes != "Picked up Puka Nacua for $23, dropped Zach Ertz" {
		t.Errorf("first transaction notes = %q", summary.Transactions[0].Notes)
	}
	if summary.TotalFAABSpent != 23 {
		t.Errorf("total faab = %d, want 23", summary.TotalFAABSpent)
	}
	if summary.MostActiveTrader == nil || *summary.MostActiveTrader != "Bob" {
		t.Errorf("most active trader = %v, want Bob", summary.MostActiveTrader)
	}

	if math.Abs(summary.TotalPoints-415.75) > 1e-9 {
		t.Errorf("total points = %v, want 415.75", summary.TotalPoints)
	}
	if math.Abs(summary.AverageScore-103.9375) > 1e-9 {
		t.Errorf("average score = %v, want 103.9375", summary.AverageScore)
	}

	wantPlayoffs := []string{"Gridiron Gang", "Waiver Wizards", "Bench Warmers", "Team 4"}
	if len(summary.PlayoffPicture) != len(wantPlayoffs) {
		t.Fatalf("playoff picture has %d teams, want %d", len(summary.PlayoffPicture), len(wantPlayoffs))
	}
	for i, want := range wantPlayoffs {
		if summary.PlayoffPicture[i] != want {
			t.Errorf("playoff slot %d = %q, want %q", i+1, summary.PlayoffPicture[i], want)
		}
	}
}

// TestGenerateWeeklySummaryMissingLeague verifies the not-found signal
func TestGenerateWeeklySummaryMissingLeague(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GenerateWeeklySummary(context.Background(), "sleeper:nope", 3)
	if err == nil {
		t.Fatal("expected an error for a missing league")
	}
	if !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("error = %v, want wrapped ErrNotFound", err)
	}
}

// TestGenerateWeeklySummaryEmptyWeek verifies a week with no matchups errors
// instead of returning a hollow summary
func TestGenerateWeeklySummaryEmptyWeek(t *testing.T) {
	svc, manager := newTestService(t)
	leagueID := seedLeague(t, manager)

	_, err := svc.GenerateWeeklySummary(context.Background(), leagueID, 12)
	if err == nil {
		t.Fatal("expected an error for a week with no matchups")
	}
	if errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("empty week should not report not-found, got %v", err)
	}
}

// TestGenerateWeeklySummaryNoWinners verifies the positional pairing fallback
// when no matchup has a decided winner
func TestGenerateWeeklySummaryNoWinners(t *testing.T) {
	svc, manager := newTestService(t)
	ctx := context.Background()

	leagueID := models.LeagueID(models.PlatformSleeper, "553")
	league := &models.League{
		ID:         leagueID,
		Platform:   models.PlatformSleeper,
		ExternalID: "553",
		Name:       "Tie City",
		Season:     "2025",
		NumTeams:   2,
		Status:     models.LeagueStatusInSeason,
	}
	if err := manager.LeagueStorage().SaveLeague(ctx, league); err != nil {
		t.Fatalf("failed to save league: %v", err)
	}

	rosters := []*models.Roster{
		{ID: models.RosterKey(leagueID, 1), LeagueID: leagueID, RosterID: 1, TeamName: "Deadlock A", OwnerName: "Ann"},
		{ID: models.RosterKey(leagueID, 2), LeagueID: leagueID, RosterID: 2, TeamName: "Deadlock B", OwnerName: "Ben"},
	}
	if err := manager.RosterStorage().SaveRosters(ctx, rosters); err != nil {
		t.Fatalf("failed to save rosters: %v", err)
	}

	matchup := &models.Matchup{
		ID:            models.MatchupKey(leagueID, 1, 1),
		LeagueID:      leagueID,
		Week:          1,
		MatchupID:     1,
		Team1RosterID: 1,
		Team2RosterID: intPtr(2),
		Team1Points:   88.0,
		Team2Points:   88.0,
	}
	if err := manager.MatchupStorage().SaveMatchup(ctx, matchup); err != nil {
		t.Fatalf("failed to save matchup: %v", err)
	}

	summary, err := svc.GenerateWeeklySummary(ctx, leagueID, 1)
	if err != nil {
		t.Fatalf("GenerateWeeklySummary failed: %v", err)
	}

	// No decided winners, so both extremes pair the first two records
	if summary.BiggestBlowout.Winner.RosterID != 1 || summary.BiggestBlowout.Loser.RosterID != 2 {
		t.Errorf("fallback blowout = %d / %d", summary.BiggestBlowout.Winner.RosterID, summary.BiggestBlowout.Loser.RosterID)
	}
	if summary.ClosestMatchup.Winner.RosterID != 1 || summary.ClosestMatchup.Loser.RosterID != 2 {
		t.Errorf("fallback closest = %d / %d", summary.ClosestMatchup.Winner.RosterID, summary.ClosestMatchup.Loser.RosterID)
	}
	if summary.BiggestBlowout.Winner.Win {
		t.Error("fallback pairing should not mark anyone as a winner")
	}
	if summary.MostActiveTrader != nil {
		t.Errorf("most active trader = %q, want nil with no transactions", *summary.MostActiveTrader)
	}
	if summary.TotalFAABSpent != 0 {
		t.Errorf("total faab = %d, want 0", summary.TotalFAABSpent)
	}
}

// TestCalculatePowerRankingsFromStore verifies the standalone rankings read
func TestCalculatePowerRankingsFromStore(t *testing.T) {
	svc, manager := newTestService(t)
	leagueID := seedLeague(t, manager)

	rankings, err := svc.CalculatePowerRankings(context.Background(), leagueID)
	if err != nil {
		t.Fatalf("CalculatePowerRankings failed: %v", err)
	}
	if len(rankings) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(rankings))
	}
	if rankings[0].TeamName != "Gridiron Gang" || rankings[0].Rank != 1 {
		t.Errorf("rank 1 = %q (%d)", rankings[0].TeamName, rankings[0].Rank)
	}
	if rankings[3].TeamName != "Team 4" {
		t.Errorf("rank 4 = %q, want the placeholder name", rankings[3].TeamName)
	}
}

// TestSummarizeTransactionsFromStore verifies the standalone transaction read
func TestSummarizeTransactionsFromStore(t *testing.T) {
	svc, manager := newTestService(t)
	leagueID := seedLeague(t, manager)

	summaries, err := svc.SummarizeTransactions(context.Background(), leagueID, 3)
	if err != nil {
		t.Fatalf("SummarizeTransactions failed: %v", err)
	}
	if len(summaries) != 4 {
		t.Fatalf("expected 4 summaries, got %d", len(summaries))
	}

	// Creation order is preserved
	if summaries[0].Type != models.TransactionTypeWaiver {
		t.Errorf("first summary type = %s, want waiver", summaries[0].Type)
	}
	if summaries[2].Notes != "Free_Agent: +Dare Ogunbowale -" {
		t.Errorf("free agent notes = %q", summaries[2].Notes)
	}
	if summaries[3].TeamName != "Team 9" {
		t.Errorf("unresolved roster team = %q, want %q", summaries[3].TeamName, "Team 9")
	}
}

// TestAverageScoreEmpty verifies the zero-division guard stands on its own
func TestAverageScoreEmpty(t *testing.T) {
	if avg := averageScore(nil, 0); avg != 0 {
		t.Errorf("averageScore(empty) = %v, want 0", avg)
	}
}

// TestSelectMatchupExtremesSinglePair verifies one matchup serves as both extremes
func TestSelectMatchupExtremesSinglePair(t *testing.T) {
	performances := []models.PerformanceRecord{
		{RosterID: 1, TeamName: "Solo A", Win: true, OpponentName: "Solo B", Margin: 20},
		{RosterID: 2, TeamName: "Solo B", Win: false, OpponentName: "Solo A", Margin: 20},
	}

	blowout, closest := selectMatchupExtremes(performances)
	if blowout.Winner.RosterID != 1 || blowout.Loser.RosterID != 2 {
		t.Errorf("blowout = %d over %d", blowout.Winner.RosterID, blowout.Loser.RosterID)
	}
	if closest.Winner.RosterID != blowout.Winner.RosterID || closest.Loser.RosterID != blowout.Loser.RosterID {
		t.Error("single pair should be both the blowout and the closest matchup")
	}
}
