package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createListLeaguesTool returns the list_leagues tool definition
func createListLeaguesTool() mcp.Tool {
	return mcp.NewTool("list_leagues",
		mcp.WithDescription("List registered fantasy leagues with their season, current week, and recap settings"),
		mcp.WithString("platform",
			mcp.Description("Filter by platform: sleeper, yahoo"),
		),
	)
}

// createGetWeeklySummaryTool returns the get_weekly_summary tool definition
func createGetWeeklySummaryTool() mcp.Tool {
	return mcp.NewTool("get_weekly_summary",
		mcp.WithDescription("Retrieve the full weekly digest for a league: scores, superlatives, power rankings, and transactions"),
		mcp.WithString("league_id",
			mcp.Required(),
			mcp.Description("League ID (format: {platform}:{external_id}, e.g. sleeper:991)"),
		),
		mcp.WithNumber("week",
			mcp.Description("Week number (default: most recent summary)"),
		),
	)
}

// createGetPowerRankingsTool returns the get_power_rankings tool definition
func createGetPowerRankingsTool() mcp.Tool {
	return mcp.NewTool("get_power_rankings",
		mcp.WithDescription("Retrieve the computed power rankings for a league week, including rank movement"),
		mcp.WithString("league_id",
			mcp.Required(),
			mcp.Description("League ID (format: {platform}:{external_id})"),
		),
		mcp.WithNumber("week",
			mcp.Description("Week number (default: most recent summary)"),
		),
	)
}

// createGetTransactionRecapTool returns the get_transaction_recap tool definition
func createGetTransactionRecapTool() mcp.Tool {
	return mcp.NewTool("get_transaction_recap",
		mcp.WithDescription("Retrieve the waiver and trade activity for a league week, including FAAB spending"),
		mcp.WithString("league_id",
			mcp.Required(),
			mcp.Description("League ID (format: {platform}:{external_id})"),
		),
		mcp.WithNumber("week",
			mcp.Description("Week number (default: most recent summary)"),
		),
	)
}
