package analytics

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mazraa/mazraa-metrics/internal/order"
)

func mkOrder(status order.Status, amount int64) order.Order {
	return order.Order{
		Status:      status,
		TotalAmount: decimal.NewFromInt(amount),
	}
}

func TestComputeReliabilityMixedHistory(t *testing.T) {
	orders := []order.Order{
		mkOrder(order.StatusDelivered, 1000),
		mkOrder(order.StatusDelivered, 2000),
		mkOrder(order.StatusCancelled, 500),
		mkOrder(order.StatusPending, 300),
	}

	rel, ok := ComputeReliability(orders)
	if !ok {
		t.Fatal("expected a result for non-empty history")
	}
	if rel.Score != 67 {
		t.Fatalf("expected score 67, got %d", rel.Score)
	}
	if !rel.TotalSpent.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("expected total_spent 3000, got %s", rel.TotalSpent)
	}
	if rel.TotalOrders != 4 {
		t.Fatalf("expected total_orders 4, got %d", rel.TotalOrders)
	}
}

func TestComputeReliabilityEmpty(t *testing.T) {
	if _, ok := ComputeReliability(nil); ok {
		t.Fatal("empty history must not produce a result")
	}
}

func TestComputeReliabilityNoTerminalOrders(t *testing.T) {
	orders := []order.Order{
		mkOrder(order.StatusPending, 100),
		mkOrder(order.StatusShipped, 200),
	}

	rel, ok := ComputeReliability(orders)
	if !ok {
		t.Fatal("expected a result")
	}
	if rel.Score != 100 {
		t.Fatalf("no terminal orders should keep full score, got %d", rel.Score)
	}
	if !rel.TotalSpent.IsZero() {
		t.Fatalf("nothing delivered, expected zero spent, got %s", rel.TotalSpent)
	}
	if rel.TotalOrders != 2 {
		t.Fatalf("expected total_orders 2, got %d", rel.TotalOrders)
	}
}

func TestComputeReliabilityPendingCountsOnlyAsVolume(t *testing.T) {
	base := []order.Order{mkOrder(order.StatusDelivered, 1000)}
	withPending := append([]order.Order{}, base...)
	withPending = append(withPending, mkOrder(order.StatusPending, 9999))

	before, _ := ComputeReliability(base)
	after, _ := ComputeReliability(withPending)

	if after.Score != before.Score {
		t.Fatalf("pending order changed score: %d -> %d", before.Score, after.Score)
	}
	if !after.TotalSpent.Equal(before.TotalSpent) {
		t.Fatalf("pending order changed total_spent: %s -> %s", before.TotalSpent, after.TotalSpent)
	}
	if after.TotalOrders != before.TotalOrders+1 {
		t.Fatalf("expected total_orders %d, got %d", before.TotalOrders+1, after.TotalOrders)
	}
}

func TestComputeReliabilityIdempotent(t *testing.T) {
	orders := []order.Order{
		mkOrder(order.StatusDelivered, 500),
		mkOrder(order.StatusCancelled, 200),
		mkOrder(order.StatusCancelled, 100),
	}

	first, _ := ComputeReliability(orders)
	second, _ := ComputeReliability(orders)
	if first.Score != second.Score || first.TotalOrders != second.TotalOrders ||
		!first.TotalSpent.Equal(second.TotalSpent) {
		t.Fatalf("recompute diverged: %+v vs %+v", first, second)
	}
	if first.Score != 33 {
		t.Fatalf("expected score 33, got %d", first.Score)
	}
}
