package analytics

import (
	"testing"

	"github.com/mazraa/mazraa-metrics/internal/order"
	"github.com/mazraa/mazraa-metrics/internal/zone"
)

func TestParseRegionCode(t *testing.T) {
	cases := []struct {
		address string
		want    string
	}{
		{"حي النصر, شارع 12, 31", "31"},
		{"وسط المدينة, 5", "05"},
		{"بدون رقم ولاية", "16"},
		{"عنوان, 99", "16"},  // 超出 58
		{"عنوان, 0", "16"},   // 低于 01
		{"عنوان, 123", "16"}, // 超过两位
		{"عنوان, 1a", "16"},
		{"", "16"},
		{"عنوان,   16  ", "16"},
		{"عنوان, 58", "58"},
	}

	for _, c := range cases {
		if got := ParseRegionCode(c.address); got != c.want {
			t.Fatalf("ParseRegionCode(%q) = %q, want %q", c.address, got, c.want)
		}
	}
}

func TestRegionOfPrefersNormalizedColumn(t *testing.T) {
	o := order.Order{RegionCode: "09", WilayaAddress: "عنوان, 31"}
	if got := regionOf(o); got != "09" {
		t.Fatalf("expected normalized column to win, got %q", got)
	}

	o = order.Order{WilayaAddress: "عنوان, 31"}
	if got := regionOf(o); got != "31" {
		t.Fatalf("expected heuristic fallback 31, got %q", got)
	}
}

func TestHeatScaleBounds(t *testing.T) {
	heat := HeatScale(map[string]int{"16": 10, "31": 5, "09": 0})

	if got := heat["16"].Lightness; got != 45 {
		t.Fatalf("max count should saturate at 45, got %v", got)
	}
	if got := heat["31"].Lightness; got != 70 {
		t.Fatalf("half intensity should be 70, got %v", got)
	}
	if got := heat["09"].Lightness; got != 95 {
		t.Fatalf("zero count should stay near white 95, got %v", got)
	}
}

func TestHeatScaleEmptyInput(t *testing.T) {
	if heat := HeatScale(map[string]int{}); len(heat) != 0 {
		t.Fatalf("expected empty heat map, got %v", heat)
	}
}

func TestMapGeoDistribution(t *testing.T) {
	orders := []order.Order{
		{RegionCode: "31"},
		{RegionCode: "31"},
		{WilayaAddress: "عنوان, 31"},
		{WilayaAddress: "بدون ولاية"},
	}
	zones := []zone.DeliveryZone{
		{Name: "الغرب", Regions: "31,46"},
	}

	heat := MapGeoDistribution(orders, zones)
	if heat["31"].Count != 3 {
		t.Fatalf("expected 3 orders for 31, got %d", heat["31"].Count)
	}
	if heat["16"].Count != 1 {
		t.Fatalf("unparsable address should fall back to 16, got %d", heat["16"].Count)
	}
	if heat["31"].Zone != "الغرب" {
		t.Fatalf("expected zone name attached, got %q", heat["31"].Zone)
	}
	if heat["16"].Zone != "" {
		t.Fatalf("16 is not covered by any zone, got %q", heat["16"].Zone)
	}
}
