// Package agents provides the built-in ecosystem agent types.
package agents

import (
	"context"
	"fmt"

	"github.com/agentry-dev/agentry/internal/core"
	"github.com/agentry-dev/agentry/internal/domain/agent"
)

// TypeROIOptimization is the registry tag for the ROI optimization agent.
const TypeROIOptimization = "roi_optimization"

// DefaultTargetROI is used when neither config nor task supplies a target.
const DefaultTargetROI = 0.15

// ROIAgent analyzes revenue and cost figures against a target return on
// investment and recommends corrective actions.
type ROIAgent struct {
	*core.Base
	targetROI float64
}

// NewROIAgent constructs an uninitialized ROI agent. Config option
// "target_roi" sets the default target.
func NewROIAgent(name string, config map[string]any) *ROIAgent {
	a := &ROIAgent{}
	a.Base = core.NewBase(TypeROIOptimization, name, config, func(_ context.Context) error {
		a.targetROI = a.FloatConfig("target_roi", DefaultTargetROI)
		a.Handle("optimize_roi", a.optimizeROI)
		a.Section("roi_tracking", func() map[string]any {
			return map[string]any{
				"target_roi":         a.targetROI,
				"optimization_count": a.MetricCount(),
			}
		})
		return nil
	})
	return a
}

// ApplyOverride declares target_roi as the only specialization field.
func (a *ROIAgent) ApplyOverride(field string, value any) bool {
	if field != "target_roi" {
		return false
	}
	v, ok := value.(float64)
	if !ok {
		return false
	}
	a.targetROI = v
	return true
}

func (a *ROIAgent) optimizeROI(_ context.Context, task agent.Task) (agent.Result, error) {
	revenue := task.Float("current_revenue", 0)
	costs := task.Float("current_costs", 0)
	target := task.Float("target_roi", a.targetROI)

	var currentROI float64
	if costs > 0 {
		currentROI = (revenue - costs) / costs
	}

	// Recommendations only when strictly below target.
	var recommendations []string
	if currentROI < target {
		revenueGap := (target+1)*costs - revenue
		recommendations = []string{
			fmt.Sprintf("Increase revenue by $%.2f to reach target ROI", revenueGap),
			"Explore new revenue streams or optimize pricing",
			"Review and optimize marketing spend",
		}
	}

	a.RecordMetric("current_roi", currentROI)
	a.RecordMetric("target_roi", target)

	return agent.Success(map[string]any{
		"current_roi":     currentROI,
		"target_roi":      target,
		"revenue":         revenue,
		"costs":           costs,
		"recommendations": recommendations,
	}), nil
}
