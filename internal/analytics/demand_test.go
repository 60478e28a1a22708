package analytics

import (
	"testing"

	"github.com/mazraa/mazraa-metrics/internal/order"
)

func TestRankDemandTopN(t *testing.T) {
	orders := []order.Order{
		{ProductName: "دجاج بلدي", Status: order.StatusDelivered},
		{ProductName: "دجاج بلدي", Status: order.StatusPending},
		{ProductName: "دجاج بلدي", Status: order.StatusShipped},
		{ProductName: "بيض عضوي", Status: order.StatusDelivered},
		{ProductName: "بيض عضوي", Status: order.StatusDelivered},
		{ProductName: "خروف عيد", Status: order.StatusDelivered},
	}

	ranked := RankDemand(orders, 2)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ranked))
	}
	if ranked[0].Name != "دجاج بلدي" || ranked[0].Sales != 3 {
		t.Fatalf("unexpected leader: %+v", ranked[0])
	}
	if ranked[1].Name != "بيض عضوي" || ranked[1].Sales != 2 {
		t.Fatalf("unexpected runner-up: %+v", ranked[1])
	}
}

func TestRankDemandExcludesCancelled(t *testing.T) {
	orders := []order.Order{
		{ProductName: "علف", Status: order.StatusCancelled},
		{ProductName: "علف", Status: order.StatusCancelled},
		{ProductName: "تبن", Status: order.StatusDelivered},
	}

	ranked := RankDemand(orders, 5)
	if len(ranked) != 1 {
		t.Fatalf("cancelled orders must not rank, got %d entries", len(ranked))
	}
	if ranked[0].Name != "تبن" {
		t.Fatalf("expected تبن, got %q", ranked[0].Name)
	}
}

func TestRankDemandStableTies(t *testing.T) {
	orders := []order.Order{
		{ProductName: "b-first", Status: order.StatusPending},
		{ProductName: "a-second", Status: order.StatusPending},
		{ProductName: "c-third", Status: order.StatusPending},
	}

	ranked := RankDemand(orders, 3)
	want := []string{"b-first", "a-second", "c-third"}
	for i, w := range want {
		if ranked[i].Name != w {
			t.Fatalf("tie order broken at %d: expected %q, got %q", i, w, ranked[i].Name)
		}
	}
}

func TestRankDemandFallbackName(t *testing.T) {
	orders := []order.Order{
		{Status: order.StatusDelivered},
		{Status: order.StatusDelivered},
	}

	ranked := RankDemand(orders, 5)
	if len(ranked) != 1 || ranked[0].Name != "Generic Product" || ranked[0].Sales != 2 {
		t.Fatalf("expected single Generic Product entry with 2 sales, got %+v", ranked)
	}
}
