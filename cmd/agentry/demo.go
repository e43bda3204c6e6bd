package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/agentry-dev/agentry/internal/agents"
	"github.com/agentry-dev/agentry/internal/core"
	"github.com/agentry-dev/agentry/internal/domain/agent"
	"github.com/agentry-dev/agentry/internal/service"
)

// runDemo walks through the ecosystem end to end without external
// infrastructure: spawn three agents, run one task on each, monitor them,
// and finish with a cross-agent analysis.
func runDemo() error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := context.Background()

	registry := core.NewRegistry()
	agents.RegisterAll(registry)
	eco := service.NewEcosystemService(registry, log)

	log.Info("starting agent ecosystem demonstration")

	specs := []struct {
		typeTag string
		name    string
		config  map[string]any
	}{
		{agents.TypeROIOptimization, "ROI_Agent_1", map[string]any{"target_roi": 0.15}},
		{agents.TypeMarketplaceManager, "Marketplace_Agent_1", map[string]any{"commission_rate": 0.10}},
		{agents.TypeAnalytics, "Analytics_Agent_1", map[string]any{"metrics_window": "24h"}},
	}
	for _, s := range specs {
		if _, err := eco.Spawn(ctx, s.typeTag, s.name, s.config, nil); err != nil {
			return err
		}
		log.Info("agent spawned", "name", s.name, "type", s.typeTag)
	}

	log.Info("=== ROI Optimization Demo ===")
	roiResult, err := eco.Execute(ctx, "ROI_Agent_1", agent.Task{
		Type: "optimize_roi",
		Data: map[string]any{
			"current_revenue": 100000.0,
			"current_costs":   80000.0,
			"target_roi":      0.15,
		},
	})
	if err != nil {
		return err
	}
	log.Info("roi optimization", "result", roiResult.Output)

	log.Info("=== Marketplace Management Demo ===")
	marketResult, err := eco.Execute(ctx, "Marketplace_Agent_1", agent.Task{
		Type: "analyze_marketplace",
		Data: map[string]any{
			"active_listings":    100.0,
			"total_transactions": 50.0,
			"average_price":      199.99,
		},
	})
	if err != nil {
		return err
	}
	log.Info("marketplace analysis", "result", marketResult.Output)

	log.Info("=== Analytics Demo ===")
	reportResult, err := eco.Execute(ctx, "Analytics_Agent_1", agent.Task{
		Type: "generate_report",
		Data: map[string]any{
			"timeframe": "last_24h",
			"metrics":   []any{"revenue", "user_growth", "agent_performance"},
		},
	})
	if err != nil {
		return err
	}
	log.Info("analytics report", "result", reportResult.Output)

	log.Info("=== Agent Performance Monitoring ===")
	for _, name := range eco.List() {
		a, err := eco.Get(name)
		if err != nil {
			return err
		}
		snap := a.Snapshot()
		log.Info("agent status",
			"name", snap.Name,
			"type", snap.Type,
			"state", snap.State,
			"uptime_seconds", snap.Uptime,
			"metrics", snap.Metrics,
		)
	}

	log.Info("=== Agent Collaboration Demo ===")
	statsResult, err := eco.Execute(ctx, "Marketplace_Agent_1", agent.Task{
		Type: "get_marketplace_stats",
	})
	if err != nil {
		return err
	}

	analysisResult, err := eco.Execute(ctx, "Analytics_Agent_1", agent.Task{
		Type: "analyze_data",
		Data: map[string]any{
			"roi_data":         roiResult.Output,
			"marketplace_data": statsResult.Output,
		},
	})
	if err != nil {
		return err
	}
	log.Info("collaboration analysis", "result", analysisResult.Output)

	ack, err := eco.Collaborate(ctx, "ROI_Agent_1", "Analytics_Agent_1", agent.Message{
		Subject: "analysis_complete",
		Body:    map[string]any{"source": "Marketplace_Agent_1"},
	})
	if err != nil {
		return err
	}
	log.Info("collaboration acknowledged", "status", ack.Status, "from", ack.From)

	log.Info("demonstration completed successfully")
	return nil
}
