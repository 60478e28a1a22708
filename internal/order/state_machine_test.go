package order

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusShipped, true},
		{StatusPending, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusShipped, false},
		{StatusDelivered, StatusDelivered, true},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestApplyTransition(t *testing.T) {
	o := &Order{Status: StatusPending}
	if err := ApplyTransition(o, StatusShipped); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if o.Status != StatusShipped {
		t.Fatalf("expected status shipped, got %s", o.Status)
	}

	if err := ApplyTransition(o, StatusPending); err == nil {
		t.Fatalf("expected backwards transition to fail")
	}
	if err := ApplyTransition(o, Status("refunded")); err == nil {
		t.Fatalf("expected unknown status to fail")
	}

	if err := ApplyTransition(o, StatusDelivered); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if !o.Status.Terminal() {
		t.Fatalf("expected delivered to be terminal")
	}
	if err := ApplyTransition(o, StatusCancelled); err == nil {
		t.Fatalf("expected transition out of terminal state to fail")
	}
}
