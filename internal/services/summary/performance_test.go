package summary

import (
	"math"
	"testing"

	"github.com/kforero17/aicommissioner/internal/models"
)

func testRosterMap() map[int]*models.Roster {
	return rostersByID([]*models.Roster{
		{RosterID: 1, TeamName: "Gridiron Gang", OwnerName: "Alice"},
		{RosterID: 2, TeamName: "Waiver Wizards", OwnerName: "Bob"},
		{RosterID: 3},
	})
}

// TestBuildPerformancesTwoPerMatchup verifies both sides of a matchup get a record
func TestBuildPerformancesTwoPerMatchup(t *testing.T) {
	matchups := []*models.Matchup{
		{
			Team1RosterID:  1,
			Team2RosterID:  intPtr(2),
			Team1Points:    120.5,
			Team2Points:    95.25,
			Team1Projected: 110.0,
			Team2Projected: 100.0,
			WinnerRosterID: intPtr(1),
		},
	}

	performances := buildPerformances(matchups, testRosterMap())
	if len(performances) != 2 {
		t.Fatalf("expected 2 records, got %d", len(performances))
	}

	winner := performances[0]
	loser := performances[1]

	if !winner.Win {
		t.Error("team 1 should be marked as the winner")
	}
	if loser.Win {
		t.Error("team 2 should not be marked as the winner")
	}
	if winner.TeamName != "Gridiron Gang" || winner.OpponentName != "Waiver Wizards" {
		t.Errorf("team 1 names = %q vs %q", winner.TeamName, winner.OpponentName)
	}
	if loser.TeamName != "Waiver Wizards" || loser.OpponentName != "Gridiron Gang" {
		t.Errorf("team 2 names = %q vs %q", loser.TeamName, loser.OpponentName)
	}
	if winner.OpponentPoints != 95.25 || loser.OpponentPoints != 120.5 {
		t.Errorf("opponent points = %v and %v", winner.OpponentPoints, loser.OpponentPoints)
	}

	// Margin is the same absolute value on both sides
	if math.Abs(winner.Margin-25.25) > 1e-9 || math.Abs(loser.Margin-25.25) > 1e-9 {
		t.Errorf("margins = %v and %v, want 25.25", winner.Margin, loser.Margin)
	}
}

// TestBuildPerformancesSkipsByes verifies bye matchups produce no records
func TestBuildPerformancesSkipsByes(t *testing.T) {
	matchups := []*models.Matchup{
		{Team1RosterID: 1, Team2RosterID: nil, Team1Points: 100},
		{Team1RosterID: 2, Team2RosterID: intPtr(3), Team1Points: 90, Team2Points: 80, WinnerRosterID: intPtr(2)},
	}

	performances := buildPerformances(matchups, testRosterMap())
	if len(performances) != 2 {
		t.Fatalf("expected 2 records from the non-bye matchup, got %d", len(performances))
	}
	for _, p := range performances {
		if p.RosterID == 1 {
			t.Error("bye roster should not appear in performances")
		}
	}
}

// TestBuildPerformancesSkipsUnknownRosters verifies matchups referencing
// missing rosters are dropped entirely
func TestBuildPerformancesSkipsUnknownRosters(t *testing.T) {
	matchups := []*models.Matchup{
		{Team1RosterID: 1, Team2RosterID: intPtr(99), Team1Points: 100, Team2Points: 90},
	}

	performances := buildPerformances(matchups, testRosterMap())
	if len(performances) != 0 {
		t.Errorf("expected no records for a matchup with an unknown roster, got %d", len(performances))
	}
}

// TestBuildPerformancesTieHasNoWinner verifies a tie marks neither side as a win
func TestBuildPerformancesTieHasNoWinner(t *testing.T) {
	matchups := []*models.Matchup{
		{Team1RosterID: 1, Team2RosterID: intPtr(2), Team1Points: 100, Team2Points: 100, WinnerRosterID: nil},
	}

	performances := buildPerformances(matchups, testRosterMap())
	if len(performances) != 2 {
		t.Fatalf("expected 2 records, got %d", len(performances))
	}
	for _, p := range performances {
		if p.Win {
			t.Errorf("roster %d marked as winner in a tie", p.RosterID)
		}
		if p.Margin != 0 {
			t.Errorf("roster %d margin = %v, want 0", p.RosterID, p.Margin)
		}
	}
}

// TestBuildPerformancesNameFallbacks verifies placeholder names for blank rosters
func TestBuildPerformancesNameFallbacks(t *testing.T) {
	matchups := []*models.Matchup{
		{Team1RosterID: 3, Team2RosterID: intPtr(1), Team1Points: 50, Team2Points: 60, WinnerRosterID: intPtr(1)},
	}

	performances := buildPerformances(matchups, testRosterMap())
	if len(performances) != 2 {
		t.Fatalf("expected 2 records, got %d", len(performances))
	}

	blank := performances[0]
	if blank.TeamName != "Team 3" {
		t.Errorf("team name = %q, want %q", blank.TeamName, "Team 3")
	}
	if blank.OwnerName != "Unknown" {
		t.Errorf("owner name = %q, want %q", blank.OwnerName, "Unknown")
	}
	if performances[1].OpponentName != "Team 3" {
		t.Errorf("opponent name = %q, want %q", performances[1].OpponentName, "Team 3")
	}
}
