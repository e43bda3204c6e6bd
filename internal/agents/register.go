package agents

import "github.com/agentry-dev/agentry/internal/core"

// RegisterAll registers every built-in agent type on the given registry.
func RegisterAll(r *core.Registry) {
	r.Register(TypeROIOptimization, func(name string, config map[string]any) core.Agent {
		return NewROIAgent(name, config)
	})
	r.Register(TypeMarketplaceManager, func(name string, config map[string]any) core.Agent {
		return NewMarketplaceAgent(name, config)
	})
	r.Register(TypeAnalytics, func(name string, config map[string]any) core.Agent {
		return NewAnalyticsAgent(name, config)
	})
	r.Register(TypeCommunityEngagement, func(name string, config map[string]any) core.Agent {
		return NewEngagementAgent(name, config)
	})
}
