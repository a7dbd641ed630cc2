package interfaces

import "context"

// RecapType identifies which recap flow to run
type RecapType string

const (
	RecapTypePowerRankings RecapType = "power_rankings"
	RecapTypeWaiver        RecapType = "waiver"
)

// RecapRequest carries the options for a manually requested recap
type RecapRequest struct {
	Type    RecapType `json:"type"`
	Week    int       `json:"week,omitempty"` // 0 means the flow's default week
	Style   string    `json:"style,omitempty"`
	Persona string    `json:"persona,omitempty"`
	Publish bool      `json:"publish"`
}

// RecapService orchestrates the full recap pipeline: summary generation,
// rendering, optional LLM rewrite, publishing, and rank persistence.
type RecapService interface {
	// GeneratePowerRankingsRecap runs the weekly power rankings flow for
	// one league, reviewing the most recently completed week. On
	// successful publish the new ranks become each roster's previous-rank
	// baseline for the next run.
	GeneratePowerRankingsRecap(ctx context.Context, leagueID string) (string, error)

	// GenerateWaiverRecap runs the waiver report flow for one league's
	// current week
	GenerateWaiverRecap(ctx context.Context, leagueID string) (string, error)

	// GenerateRecap runs a custom recap per the request options
	GenerateRecap(ctx context.Context, leagueID string, req RecapRequest) (string, error)

	// RunScheduledPowerRankings runs the power rankings flow for every
	// enabled league, continuing past per-league failures
	RunScheduledPowerRankings(ctx context.Context) error

	// RunScheduledWaiverRecaps runs the waiver flow for every enabled league
	RunScheduledWaiverRecaps(ctx context.Context) error
}
