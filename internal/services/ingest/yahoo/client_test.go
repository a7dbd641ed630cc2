package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/kforero17/aicommissioner/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
	return NewClient(src, WithBaseURL(srv.URL))
}

func xmlHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(body))
	}
}

const leagueXML = `<?xml version="1.0" encoding="UTF-8"?>
<fantasy_content xmlns="http://fantasysports.yahooapis.com/fantasy/v2/base.rng">
  <league>
    <league_key>461.l.12345</league_key>
    <league_id>12345</league_id>
    <name>Office League</name>
    <num_teams>10</num_teams>
    <current_week>4</current_week>
    <start_week>1</start_week>
    <end_week>17</end_week>
    <season>2025</season>
    <game_code>nfl</game_code>
    <is_finished>0</is_finished>
    <draft_status>postdraft</draft_status>
    <settings>
      <scoring_type>half_ppr</scoring_type>
      <uses_faab>1</uses_faab>
      <playoff_start_week>15</playoff_start_week>
    </settings>
  </league>
</fantasy_content>`

func TestFetchLeague(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/league/461.l.12345/settings", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer auth header, got %q", got)
		}
		w.Write([]byte(leagueXML))
	})

	c := newTestClient(t, mux)
	league, err := c.FetchLeague(context.Background(), "461.l.12345")
	if err != nil {
		t.Fatalf("FetchLeague failed: %v", err)
	}

	if league.ID != "yahoo:461.l.12345" {
		t.Errorf("expected ID yahoo:461.l.12345, got %s", league.ID)
	}
	if league.Platform != models.PlatformYahoo {
		t.Errorf("expected platform yahoo, got %s", league.Platform)
	}
	if league.Name != "Office League" {
		t.Errorf("expected name Office League, got %s", league.Name)
	}
	if league.CurrentWeek != 4 {
		t.Errorf("expected current week 4, got %d", league.CurrentWeek)
	}
	if league.NumTeams != 10 {
		t.Errorf("expected 10 teams, got %d", league.NumTeams)
	}
	if league.ScoringType != models.ScoringHalfPPR {
		t.Errorf("expected half_ppr scoring, got %s", league.ScoringType)
	}
	if league.Status != models.LeagueStatusInSeason {
		t.Errorf("expected in_season status, got %s", league.Status)
	}
	if league.TotalWeeks != 14 {
		t.Errorf("expected 14 regular-season weeks, got %d", league.TotalWeeks)
	}
}

const teamsXML = `<?xml version="1.0" encoding="UTF-8"?>
<fantasy_content xmlns="http://fantasysports.yahooapis.com/fantasy/v2/base.rng">
  <league>
    <teams count="2">
      <team>
        <team_key>461.l.12345.t.1</team_key>
        <team_id>1</team_id>
        <name>Gridiron Gang</name>
        <waiver_priority>4</waiver_priority>
        <faab_balance>77</faab_balance>
        <managers>
          <manager>
            <manager_id>1</manager_id>
            <guid>GUID1</guid>
            <nickname>Alice</nickname>
            <image_url>https://example.com/alice.png</image_url>
          </manager>
        </managers>
      </team>
      <team>
        <team_key>461.l.12345.t.2</team_key>
        <team_id>2</team_id>
        <name>Bench Warmers</name>
        <waiver_priority>1</waiver_priority>
        <faab_balance>100</faab_balance>
        <managers>
          <manager>
            <manager_id>2</manager_id>
            <guid>GUID2</guid>
            <nickname>Bob</nickname>
          </manager>
        </managers>
      </team>
    </teams>
  </league>
</fantasy_content>`

const standingsXML = `<?xml version="1.0" encoding="UTF-8"?>
<fantasy_content xmlns="http://fantasysports.yahooapis.com/fantasy/v2/base.rng">
  <league>
    <standings>
      <teams count="2">
        <team>
          <team_key>461.l.12345.t.1</team_key>
          <team_standings>
            <rank>1</rank>
            <outcome_totals>
              <wins>3</wins>
              <losses>0</losses>
              <ties>0</ties>
            </outcome_totals>
            <points_for>400.5</points_for>
            <points_against>300.25</points_against>
          </team_standings>
        </team>
        <team>
          <team_key>461.l.12345.t.2</team_key>
          <team_standings>
            <rank>2</rank>
            <outcome_totals>
              <wins>1</wins>
              <losses>2</losses>
              <ties>0</ties>
            </outcome_totals>
            <points_for>310.4</points_for>
            <points_against>355.6</points_against>
          </team_standings>
        </team>
      </teams>
    </standings>
  </league>
</fantasy_content>`

func TestFetchRosters(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/league/461.l.12345/teams", xmlHandler(teamsXML))
	mux.HandleFunc("/league/461.l.12345/standings", xmlHandler(standingsXML))

	c := newTestClient(t, mux)
	league := &models.League{ID: "yahoo:461.l.12345", ExternalID: "461.l.12345"}
	rosters, err := c.FetchRosters(context.Background(), league)
	if err != nil {
		t.Fatalf("FetchRosters failed: %v", err)
	}
	if len(rosters) != 2 {
		t.Fatalf("expected 2 rosters, got %d", len(rosters))
	}

	first := rosters[0]
	if first.ID != "yahoo:461.l.12345:1" {
		t.Errorf("expected ID yahoo:461.l.12345:1, got %s", first.ID)
	}
	if first.TeamName != "Gridiron Gang" {
		t.Errorf("expected team name Gridiron Gang, got %s", first.TeamName)
	}
	if first.OwnerID != "GUID1" || first.OwnerName != "Alice" {
		t.Errorf("unexpected owner %s/%s", first.OwnerID, first.OwnerName)
	}
	if first.Wins != 3 || first.Losses != 0 {
		t.Errorf("unexpected record %d-%d", first.Wins, first.Losses)
	}
	if first.PointsFor != 400.5 {
		t.Errorf("expected points for 400.5, got %v", first.PointsFor)
	}
	if first.FAABBudget != 77 {
		t.Errorf("expected FAAB balance 77, got %d", first.FAABBudget)
	}
	if first.WaiverPosition != 4 {
		t.Errorf("expected waiver position 4, got %d", first.WaiverPosition)
	}

	if rosters[1].Wins != 1 || rosters[1].Losses != 2 {
		t.Errorf("standings not merged for second roster: %d-%d", rosters[1].Wins, rosters[1].Losses)
	}
}

const scoreboardXML = `<?xml version="1.0" encoding="UTF-8"?>
<fantasy_content xmlns="http://fantasysports.yahooapis.com/fantasy/v2/base.rng">
  <league>
    <scoreboard>
      <matchups count="3">
        <matchup>
          <week>4</week>
          <status>postevent</status>
          <is_playoffs>0</is_playoffs>
          <is_tied>0</is_tied>
          <winner_team_key>461.l.12345.t.1</winner_team_key>
          <teams count="2">
            <team>
              <team_key>461.l.12345.t.1</team_key>
              <team_id>1</team_id>
              <team_points><total>120.5</total></team_points>
              <team_projected_points><total>110.0</total></team_projected_points>
            </team>
            <team>
              <team_key>461.l.12345.t.2</team_key>
              <team_id>2</team_id>
              <team_points><total>95.4</total></team_points>
              <team_projected_points><total>101.2</total></team_projected_points>
            </team>
          </teams>
        </matchup>
        <matchup>
          <week>4</week>
          <status>postevent</status>
          <is_playoffs>0</is_playoffs>
          <is_tied>1</is_tied>
          <teams count="2">
            <team>
              <team_key>461.l.12345.t.3</team_key>
              <team_id>3</team_id>
              <team_points><total>100</total></team_points>
            </team>
            <team>
              <team_key>461.l.12345.t.4</team_key>
              <team_id>4</team_id>
              <team_points><total>100</total></team_points>
            </team>
          </teams>
        </matchup>
        <matchup>
          <week>4</week>
          <status>midevent</status>
          <is_playoffs>0</is_playoffs>
          <is_tied>0</is_tied>
          <teams count="2">
            <team>
              <team_key>461.l.12345.t.5</team_key>
              <team_id>5</team_id>
              <team_points><total>0</total></team_points>
            </team>
            <team>
              <team_key>461.l.12345.t.6</team_key>
              <team_id>6</team_id>
              <team_points><total>0</total></team_points>
            </team>
          </teams>
        </matchup>
      </matchups>
    </scoreboard>
  </league>
</fantasy_content>`

func TestFetchMatchups(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/league/461.l.12345/scoreboard;week=4", xmlHandler(scoreboardXML))

	c := newTestClient(t, mux)
	league := &models.League{ID: "yahoo:461.l.12345", ExternalID: "461.l.12345"}
	matchups, err := c.FetchMatchups(context.Background(), league, 4)
	if err != nil {
		t.Fatalf("FetchMatchups failed: %v", err)
	}
	if len(matchups) != 3 {
		t.Fatalf("expected 3 matchups, got %d", len(matchups))
	}

	decided := matchups[0]
	if decided.ID != "yahoo:461.l.12345:4:1" {
		t.Errorf("expected ID yahoo:461.l.12345:4:1, got %s", decided.ID)
	}
	if decided.Team1RosterID != 1 || decided.Team2RosterID == nil || *decided.Team2RosterID != 2 {
		t.Errorf("unexpected sides %d/%v", decided.Team1RosterID, decided.Team2RosterID)
	}
	if decided.Team1Points != 120.5 || decided.Team2Points != 95.4 {
		t.Errorf("unexpected scores %v/%v", decided.Team1Points, decided.Team2Points)
	}
	if decided.Team1Projected != 110.0 {
		t.Errorf("expected projection 110.0, got %v", decided.Team1Projected)
	}
	if !decided.IsCompleted {
		t.Error("expected postevent matchup to be completed")
	}
	if decided.WinnerRosterID == nil || *decided.WinnerRosterID != 1 {
		t.Errorf("expected winner from winner_team_key, got %v", decided.WinnerRosterID)
	}

	tied := matchups[1]
	if !tied.IsCompleted {
		t.Error("expected tied matchup to be completed")
	}
	if tied.WinnerRosterID != nil {
		t.Errorf("expected no winner on a tie, got %v", tied.WinnerRosterID)
	}

	pending := matchups[2]
	if pending.IsCompleted {
		t.Error("expected scoreless midevent matchup to stay incomplete")
	}
	if pending.WinnerRosterID != nil {
		t.Errorf("expected no winner before scores, got %v", pending.WinnerRosterID)
	}
}

func TestFetchMatchupsMissingWeek(t *testing.T) {
	c := newTestClient(t, http.NewServeMux())
	league := &models.League{ID: "yahoo:461.l.12345", ExternalID: "461.l.12345"}

	matchups, err := c.FetchMatchups(context.Background(), league, 18)
	if err != nil {
		t.Fatalf("expected missing week to yield no error, got %v", err)
	}
	if len(matchups) != 0 {
		t.Errorf("expected no matchups, got %d", len(matchups))
	}
}

const transactionsXML = `<?xml version="1.0" encoding="UTF-8"?>
<fantasy_content xmlns="http://fantasysports.yahooapis.com/fantasy/v2/base.rng">
  <league>
    <transactions count="3">
      <transaction>
        <transaction_key>461.l.12345.tr.100</transaction_key>
        <type>add/drop</type>
        <status>successful</status>
        <timestamp>1700000000</timestamp>
        <faab_bid>23</faab_bid>
        <players count="2">
          <player>
            <player_key>461.p.40465</player_key>
            <name><full>Puka Nacua</full></name>
            <transaction_data>
              <type>add</type>
              <source_type>waivers</source_type>
              <destination_team_key>461.l.12345.t.2</destination_team_key>
            </transaction_data>
          </player>
          <player>
            <player_key>461.p.30121</player_key>
            <name><full>Zach Ertz</full></name>
            <transaction_data>
              <type>drop</type>
              <source_type>team</source_type>
              <source_team_key>461.l.12345.t.2</source_team_key>
            </transaction_data>
          </player>
        </players>
      </transaction>
      <transaction>
        <transaction_key>461.l.12345.tr.101</transaction_key>
        <type>trade</type>
        <status>successful</status>
        <timestamp>1700000500</timestamp>
        <players count="2">
          <player>
            <player_key>461.p.11111</player_key>
            <name><full>Star Runner</full></name>
            <transaction_data>
              <type>add</type>
              <source_type>team</source_type>
              <source_team_key>461.l.12345.t.4</source_team_key>
              <destination_team_key>461.l.12345.t.3</destination_team_key>
            </transaction_data>
          </player>
          <player>
            <player_key>461.p.22222</player_key>
            <name><full>Deep Threat</full></name>
            <transaction_data>
              <type>add</type>
              <source_type>team</source_type>
              <source_team_key>461.l.12345.t.3</source_team_key>
              <destination_team_key>461.l.12345.t.4</destination_team_key>
            </transaction_data>
          </player>
        </players>
      </transaction>
      <transaction>
        <transaction_key>461.l.12345.tr.102</transaction_key>
        <type>commish</type>
        <status>pending</status>
        <timestamp>1700001000</timestamp>
      </transaction>
    </transactions>
  </league>
</fantasy_content>`

func TestFetchTransactions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/league/461.l.12345/transactions;types=add,drop,trade", xmlHandler(transactionsXML))

	c := newTestClient(t, mux)
	league := &models.League{ID: "yahoo:461.l.12345", ExternalID: "461.l.12345"}
	transactions, err := c.FetchTransactions(context.Background(), league, 4)
	if err != nil {
		t.Fatalf("FetchTransactions failed: %v", err)
	}
	if len(transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(transactions))
	}

	addDrop := transactions[0]
	if addDrop.ID != "yahoo:461.l.12345:461.l.12345.tr.100" {
		t.Errorf("unexpected ID %s", addDrop.ID)
	}
	if addDrop.Type != models.TransactionTypeAdd {
		t.Errorf("expected add/drop to map to add, got %s", addDrop.Type)
	}
	if addDrop.Status != models.TransactionStatusComplete {
		t.Errorf("expected successful to map to complete, got %s", addDrop.Status)
	}
	if addDrop.Week != 4 {
		t.Errorf("expected requested week 4, got %d", addDrop.Week)
	}
	if addDrop.RosterID != 2 {
		t.Errorf("expected roster 2 from destination key, got %d", addDrop.RosterID)
	}
	if addDrop.FAABBid == nil || *addDrop.FAABBid != 23 {
		t.Errorf("expected FAAB bid 23, got %v", addDrop.FAABBid)
	}
	if string(addDrop.PlayersAdded) != `[{"name":"Puka Nacua","player_key":"461.p.40465"}]` {
		t.Errorf("unexpected adds payload %s", addDrop.PlayersAdded)
	}
	if string(addDrop.PlayersDropped) != `[{"name":"Zach Ertz","player_key":"461.p.30121"}]` {
		t.Errorf("unexpected drops payload %s", addDrop.PlayersDropped)
	}
	if !addDrop.CreatedAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("expected created time from timestamp, got %v", addDrop.CreatedAt)
	}
	if addDrop.ProcessedAt == nil || !addDrop.ProcessedAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("expected processed time from timestamp, got %v", addDrop.ProcessedAt)
	}

	trade := transactions[1]
	if trade.Type != models.TransactionTypeTrade {
		t.Errorf("expected trade type, got %s", trade.Type)
	}
	if trade.RosterID != 3 {
		t.Errorf("expected roster 3, got %d", trade.RosterID)
	}
	if trade.TradePartnerRosterID == nil || *trade.TradePartnerRosterID != 4 {
		t.Errorf("expected trade partner 4, got %v", trade.TradePartnerRosterID)
	}

	commish := transactions[2]
	if commish.Type != models.TransactionTypeWaiver {
		t.Errorf("expected unknown type to map to waiver, got %s", commish.Type)
	}
	if commish.Status != models.TransactionStatusPending {
		t.Errorf("expected pending status, got %s", commish.Status)
	}
}

func TestFetchUsers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/league/461.l.12345/teams", xmlHandler(teamsXML))

	c := newTestClient(t, mux)
	league := &models.League{ID: "yahoo:461.l.12345", ExternalID: "461.l.12345"}
	users, err := c.FetchUsers(context.Background(), league)
	if err != nil {
		t.Fatalf("FetchUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	if users[0].ID != "yahoo:GUID1" {
		t.Errorf("expected ID yahoo:GUID1, got %s", users[0].ID)
	}
	if users[0].DisplayName != "Alice" {
		t.Errorf("expected display name Alice, got %s", users[0].DisplayName)
	}
	if users[0].AvatarURL != "https://example.com/alice.png" {
		t.Errorf("unexpected avatar URL %s", users[0].AvatarURL)
	}
	if !users[0].InLeague("yahoo:461.l.12345") {
		t.Error("expected user to be tagged with the league")
	}
}

func TestTeamIDFromKey(t *testing.T) {
	tests := []struct {
		key      string
		expected int
	}{
		{"461.l.12345.t.7", 7},
		{"461.l.12345.t.12", 12},
		{"461.l.12345", 0},
		{"461.l.12345.t.x", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := teamIDFromKey(tt.key); got != tt.expected {
			t.Errorf("teamIDFromKey(%q) = %d, expected %d", tt.key, got, tt.expected)
		}
	}
}

func TestYahooScoringType(t *testing.T) {
	tests := []struct {
		label    string
		expected models.ScoringType
	}{
		{"half_ppr", models.ScoringHalfPPR},
		{"ppr", models.ScoringPPR},
		{"head", models.ScoringStandard},
		{"", models.ScoringStandard},
	}

	for _, tt := range tests {
		if got := yahooScoringType(tt.label); got != tt.expected {
			t.Errorf("yahooScoringType(%q) = %s, expected %s", tt.label, got, tt.expected)
		}
	}
}

func TestYahooTransactionType(t *testing.T) {
	tests := []struct {
		label    string
		expected models.TransactionType
	}{
		{"trade", models.TransactionTypeTrade},
		{"add/drop", models.TransactionTypeAdd},
		{"add", models.TransactionTypeAdd},
		{"drop", models.TransactionTypeDrop},
		{"commish", models.TransactionTypeWaiver},
	}

	for _, tt := range tests {
		if got := yahooTransactionType(tt.label); got != tt.expected {
			t.Errorf("yahooTransactionType(%q) = %s, expected %s", tt.label, got, tt.expected)
		}
	}
}
