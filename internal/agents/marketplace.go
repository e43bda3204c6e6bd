package agents

import (
	"context"

	"github.com/agentry-dev/agentry/internal/core"
	"github.com/agentry-dev/agentry/internal/domain/agent"
)

// TypeMarketplaceManager is the registry tag for the marketplace agent.
const TypeMarketplaceManager = "marketplace_manager"

// DefaultCommissionRate is used when config does not set commission_rate.
const DefaultCommissionRate = 0.10

// lowConversionThreshold triggers marketplace insights.
const lowConversionThreshold = 0.3

// MarketplaceAgent analyzes marketplace listings, transactions, and
// commission revenue.
type MarketplaceAgent struct {
	*core.Base
	commissionRate float64
}

// NewMarketplaceAgent constructs an uninitialized marketplace agent. Config
// option "commission_rate" sets the platform cut.
func NewMarketplaceAgent(name string, config map[string]any) *MarketplaceAgent {
	a := &MarketplaceAgent{}
	a.Base = core.NewBase(TypeMarketplaceManager, name, config, func(_ context.Context) error {
		a.commissionRate = a.FloatConfig("commission_rate", DefaultCommissionRate)
		a.Handle("analyze_marketplace", a.analyzeMarketplace)
		a.Handle("get_marketplace_stats", a.marketplaceStats)
		a.Section("marketplace", func() map[string]any {
			return map[string]any{
				"commission_rate":   a.commissionRate,
				"transaction_count": a.MetricCount(),
			}
		})
		return nil
	})
	return a
}

// ApplyOverride declares commission_rate as the only specialization field.
func (a *MarketplaceAgent) ApplyOverride(field string, value any) bool {
	if field != "commission_rate" {
		return false
	}
	v, ok := value.(float64)
	if !ok {
		return false
	}
	a.commissionRate = v
	return true
}

func (a *MarketplaceAgent) analyzeMarketplace(_ context.Context, task agent.Task) (agent.Result, error) {
	listings := task.Float("active_listings", 0)
	transactions := task.Float("total_transactions", 0)
	averagePrice := task.Float("average_price", 0)

	var conversionRate float64
	if listings > 0 {
		conversionRate = transactions / listings
	}
	revenue := transactions * averagePrice
	commissionRevenue := revenue * a.commissionRate

	var insights []string
	if conversionRate < lowConversionThreshold {
		insights = []string{
			"Low conversion rate detected",
			"Consider optimizing listing visibility",
			"Review pricing strategies",
		}
	}

	a.RecordMetric("conversion_rate", conversionRate)
	a.RecordMetric("commission_revenue", commissionRevenue)

	return agent.Success(map[string]any{
		"active_listings":    listings,
		"total_transactions": transactions,
		"average_price":      averagePrice,
		"conversion_rate":    conversionRate,
		"commission_revenue": commissionRevenue,
		"insights":           insights,
	}), nil
}

// marketplaceStats returns simulated marketplace figures; a live deployment
// would query the persistence store.
func (a *MarketplaceAgent) marketplaceStats(_ context.Context, _ agent.Task) (agent.Result, error) {
	return agent.Success(map[string]any{
		"listings_count":     100,
		"transactions_count": 50,
		"average_price":      199.99,
	}), nil
}
