package zone

import "testing"

func TestRegionsSliceAndCovers(t *testing.T) {
	z := DeliveryZone{Name: "الوسط", Regions: " 16, 09 ,35,,"}
	got := z.RegionsSlice()
	if len(got) != 3 {
		t.Fatalf("expected 3 regions, got %v", got)
	}
	if !z.Covers("09") {
		t.Fatalf("expected zone to cover 09")
	}
	if z.Covers("31") {
		t.Fatalf("did not expect zone to cover 31")
	}
}

func TestNameFor(t *testing.T) {
	zones := []DeliveryZone{
		{Name: "الوسط", Regions: "16,09,35"},
		{Name: "الغرب", Regions: "31,22"},
	}
	if name := NameFor(zones, "31"); name != "الغرب" {
		t.Fatalf("expected west zone, got %q", name)
	}
	if name := NameFor(zones, "58"); name != "" {
		t.Fatalf("expected empty name for uncovered code, got %q", name)
	}
}
