package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/agentry-dev/agentry/internal/core"
	"github.com/agentry-dev/agentry/internal/domain/agent"
)

// TypeAnalytics is the registry tag for the analytics agent.
const TypeAnalytics = "analytics"

// AnalyticsAgent produces cross-agent reports and derives insights from
// ROI and marketplace figures.
type AnalyticsAgent struct {
	*core.Base
	metricsWindow string
}

// NewAnalyticsAgent constructs an uninitialized analytics agent. Config
// option "metrics_window" scopes report generation.
func NewAnalyticsAgent(name string, config map[string]any) *AnalyticsAgent {
	a := &AnalyticsAgent{}
	a.Base = core.NewBase(TypeAnalytics, name, config, func(_ context.Context) error {
		a.metricsWindow = a.StringConfig("metrics_window", "24h")
		a.Handle("generate_report", a.generateReport)
		a.Handle("analyze_data", a.analyzeData)
		a.Section("analytics", func() map[string]any {
			return map[string]any{
				"metrics_window":  a.metricsWindow,
				"events_recorded": a.MetricCount(),
			}
		})
		return nil
	})
	return a
}

func (a *AnalyticsAgent) generateReport(_ context.Context, task agent.Task) (agent.Result, error) {
	timeframe := task.String("timeframe")
	if timeframe == "" {
		timeframe = "last_24h"
	}

	requested, _ := task.Data["metrics"].([]any)
	sections := map[string]any{}
	for _, m := range requested {
		switch m {
		case "revenue":
			sections["revenue"] = map[string]any{
				"total_revenue": 150000,
				"growth_rate":   0.15,
				"top_sources":   []string{"marketplace", "subscriptions", "services"},
			}
		case "user_growth":
			sections["user_growth"] = map[string]any{
				"total_users":  5000,
				"growth_rate":  0.08,
				"active_users": 3500,
			}
		case "agent_performance":
			sections["agent_performance"] = map[string]any{
				"total_agents":          10,
				"active_agents":         8,
				"average_response_time": 0.5,
				"success_rate":          0.95,
			}
		}
	}

	a.RecordMetric("report_generated", 1)

	return agent.Success(map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"timeframe": timeframe,
		"metrics":   sections,
	}), nil
}

func (a *AnalyticsAgent) analyzeData(_ context.Context, task agent.Task) (agent.Result, error) {
	roiData, _ := task.Data["roi_data"].(map[string]any)
	marketplaceData, _ := task.Data["marketplace_data"].(map[string]any)

	var insights []string

	if len(roiData) > 0 {
		currentROI := floatField(roiData, "current_roi")
		targetROI := floatField(roiData, "target_roi")
		if targetROI > 0 && currentROI < targetROI {
			gap := (targetROI - currentROI) / targetROI * 100
			insights = append(insights, fmt.Sprintf("ROI is %.1f%% below target", gap))
		}
	}

	if len(marketplaceData) > 0 {
		listings := floatField(marketplaceData, "listings_count")
		transactions := floatField(marketplaceData, "transactions_count")
		if listings > 0 {
			conversion := transactions / listings * 100
			insights = append(insights, fmt.Sprintf("Marketplace conversion rate: %.1f%%", conversion))
		}
	}

	a.RecordMetric("data_analyzed", 1)

	return agent.Success(map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"insights":  insights,
	}), nil
}

func floatField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
