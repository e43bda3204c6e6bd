package agents_test

import (
	"context"
	"testing"

	"github.com/agentry-dev/agentry/internal/domain/agent"
)

func TestMarketplaceAnalyze(t *testing.T) {
	r := newRegistry()
	a, err := r.Create(context.Background(), "marketplace_manager", "M1",
		map[string]any{"commission_rate": 0.10})
	if err != nil {
		t.Fatal(err)
	}

	res, err := a.Execute(context.Background(), agent.Task{
		Type: "analyze_marketplace",
		Data: map[string]any{
			"active_listings":    100.0,
			"total_transactions": 50.0,
			"average_price":      200.0,
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := res.Output["conversion_rate"].(float64); got != 0.5 {
		t.Fatalf("expected conversion 0.5, got %v", got)
	}
	// 50 * 200 * 0.10
	if got := res.Output["commission_revenue"].(float64); got != 1000 {
		t.Fatalf("expected commission 1000, got %v", got)
	}
	// Conversion 0.5 >= 0.3: no insights.
	if insights := res.Output["insights"].([]string); len(insights) != 0 {
		t.Fatalf("expected no insights, got %v", insights)
	}
}

func TestMarketplaceLowConversionInsights(t *testing.T) {
	r := newRegistry()
	a, err := r.Create(context.Background(), "marketplace_manager", "M1", nil)
	if err != nil {
		t.Fatal(err)
	}

	res, err := a.Execute(context.Background(), agent.Task{
		Type: "analyze_marketplace",
		Data: map[string]any{
			"active_listings":    100.0,
			"total_transactions": 10.0,
			"average_price":      50.0,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if insights := res.Output["insights"].([]string); len(insights) != 3 {
		t.Fatalf("expected 3 insights at low conversion, got %d", len(insights))
	}
}

func TestMarketplaceStats(t *testing.T) {
	r := newRegistry()
	a, err := r.Create(context.Background(), "marketplace_manager", "M1", nil)
	if err != nil {
		t.Fatal(err)
	}

	res, err := a.Execute(context.Background(), agent.Task{Type: "get_marketplace_stats"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != agent.ResultSuccess {
		t.Fatalf("expected success, got %s", res.Status)
	}
	if got := res.Output["listings_count"].(int); got != 100 {
		t.Fatalf("expected 100 listings, got %v", got)
	}
}

func TestMarketplaceZeroListings(t *testing.T) {
	r := newRegistry()
	a, err := r.Create(context.Background(), "marketplace_manager", "M1", nil)
	if err != nil {
		t.Fatal(err)
	}

	res, err := a.Execute(context.Background(), agent.Task{
		Type: "analyze_marketplace",
		Data: map[string]any{"total_transactions": 10.0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Output["conversion_rate"].(float64); got != 0 {
		t.Fatalf("expected conversion 0 with no listings, got %v", got)
	}
}
