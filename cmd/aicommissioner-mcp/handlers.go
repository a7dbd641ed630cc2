package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/kforero17/aicommissioner/internal/interfaces"
	"github.com/kforero17/aicommissioner/internal/models"
)

// handleListLeagues implements the list_leagues tool
func handleListLeagues(leagues interfaces.LeagueStorage, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		platform := request.GetString("platform", "")

		var (
			result []*models.League
			err    error
		)
		if platform != "" {
			if !models.IsValidPlatform(models.Platform(platform)) {
				return textResult(fmt.Sprintf("Error: unknown platform %q (must be sleeper or yahoo)", platform)), nil
			}
			result, err = leagues.GetLeaguesByPlatform(ctx, models.Platform(platform))
		} else {
			result, err = leagues.ListLeagues(ctx)
		}
		if err != nil {
			logger.Error().Err(err).Msg("Failed to list leagues")
			return textResult(fmt.Sprintf("Error listing leagues: %v", err)), nil
		}

		return textResult(formatLeagues(result)), nil
	}
}

// handleGetWeeklySummary implements the get_weekly_summary tool
func handleGetWeeklySummary(summaries interfaces.SummaryStorage, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary, errText := resolveSummary(ctx, request, summaries, logger)
		if errText != "" {
			return textResult(errText), nil
		}

		return textResult(formatSummary(summary)), nil
	}
}

// handleGetPowerRankings implements the get_power_rankings tool
func handleGetPowerRankings(summaries interfaces.SummaryStorage, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary, errText := resolveSummary(ctx, request, summaries, logger)
		if errText != "" {
			return textResult(errText), nil
		}

		return textResult(formatPowerRankings(summary)), nil
	}
}

// handleGetTransactionRecap implements the get_transaction_recap tool
func handleGetTransactionRecap(summaries interfaces.SummaryStorage, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary, errText := resolveSummary(ctx, request, summaries, logger)
		if errText != "" {
			return textResult(errText), nil
		}

		return textResult(formatTransactionRecap(summary)), nil
	}
}

// resolveSummary loads the summary named by the request's league_id and
// optional week. Week 0 means the most recent stored summary.
func resolveSummary(ctx context.Context, request mcp.CallToolRequest, summaries interfaces.SummaryStorage, logger arbor.ILogger) (*models.WeeklySummary, string) {
	leagueID, err := request.RequireString("league_id")
	if err != nil || leagueID == "" {
		return nil, "Error: league_id parameter is required"
	}

	week := request.GetInt("week", 0)
	if week < 0 {
		return nil, fmt.Sprintf("Error: week must be positive, got %d", week)
	}

	var summary *models.WeeklySummary
	if week > 0 {
		summary, err = summaries.GetSummary(ctx, leagueID, week)
	} else {
		summary, err = summaries.GetLatestSummary(ctx, leagueID)
	}
	if err != nil {
		logger.Error().Err(err).Str("league_id", leagueID).Int("week", week).Msg("Failed to load summary")
		if week > 0 {
			return nil, fmt.Sprintf("No summary found for league %s week %d. Sync the league and generate a recap first.", leagueID, week)
		}
		return nil, fmt.Sprintf("No summaries found for league %s. Sync the league and generate a recap first.", leagueID)
	}

	return summary, ""
}

// textResult wraps markdown in the MCP content envelope
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}
