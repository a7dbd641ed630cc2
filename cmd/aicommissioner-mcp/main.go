package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbormodels "github.com/ternarybob/arbor/models"

	"github.com/kforero17/aicommissioner/internal/common"
	"github.com/kforero17/aicommissioner/internal/storage"
)

func main() {
	// Load configuration
	configPath := os.Getenv("AICOMMISSIONER_CONFIG")
	if configPath == "" {
		if _, err := os.Stat("aicommissioner.toml"); err == nil {
			configPath = "aicommissioner.toml"
		}
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logger for MCP server (console only, no file output)
	logger := arbor.NewLogger().WithConsoleWriter(arbormodels.WriterConfiguration{
		Type:             arbormodels.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn") // Minimal logging to avoid cluttering MCP stdio

	// Initialize storage
	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer storageManager.Close()

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"aicommissioner",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register league and summary tools
	mcpServer.AddTool(createListLeaguesTool(), handleListLeagues(storageManager.LeagueStorage(), logger))
	mcpServer.AddTool(createGetWeeklySummaryTool(), handleGetWeeklySummary(storageManager.SummaryStorage(), logger))
	mcpServer.AddTool(createGetPowerRankingsTool(), handleGetPowerRankings(storageManager.SummaryStorage(), logger))
	mcpServer.AddTool(createGetTransactionRecapTool(), handleGetTransactionRecap(storageManager.SummaryStorage(), logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
