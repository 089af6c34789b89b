package mapflow

import (
	"testing"
	"time"

	"github.com/loclane/mapflow/internal/domain"
)

func TestNew_NoAddress(t *testing.T) {
	_, err := New()
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown", addrs: []string{"localhost:1234"}}
	_, err := createStore(cfg)
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithValkey("localhost:6379", "secret")(cfg)
	if cfg.driver != "valkey" {
		t.Errorf("driver = %q, want valkey", cfg.driver)
	}
	if cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addr = %q, want localhost:6379", cfg.addrs[0])
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q, want secret", cfg.password)
	}

	cfg2 := &clientConfig{}
	WithRedis("localhost:6380", "pass")(cfg2)
	if cfg2.driver != "redis" {
		t.Errorf("driver = %q, want redis", cfg2.driver)
	}

	cfg3 := &clientConfig{}
	WithClustering(60, 3, 14)(cfg3)
	if cfg3.clusterRadiusPx != 60 || cfg3.clusterMinPts != 3 || cfg3.clusterMaxZoom != 14 {
		t.Errorf("clustering = (%v, %d, %d), want (60, 3, 14)",
			cfg3.clusterRadiusPx, cfg3.clusterMinPts, cfg3.clusterMaxZoom)
	}

	WithDebounce(100 * time.Millisecond)(cfg3)
	if cfg3.debounce != 100*time.Millisecond {
		t.Errorf("debounce = %v, want 100ms", cfg3.debounce)
	}

	WithMaxBatchSize(5000)(cfg3)
	if cfg3.maxBatchSize != 5000 {
		t.Errorf("maxBatchSize = %d, want 5000", cfg3.maxBatchSize)
	}
}

func TestClient_Close_NilStore(t *testing.T) {
	c := &Client{store: nil}
	c.Close() // must not panic
}

func TestListingConversion_RoundTrip(t *testing.T) {
	in := Listing{
		ID:       "bike-1",
		Title:    "vintage road bike",
		Category: "sports",
		Zip:      "40202",
		Price:    120,
		Lat:      38.2527,
		Lng:      -85.7585,
	}

	out := fromDomainListing(toDomainListing(in))
	if out != in {
		t.Errorf("round trip changed listing: got %+v, want %+v", out, in)
	}
}

func TestViewportConversion(t *testing.T) {
	vp := Viewport{
		Bounds: BBox{West: -85.76, South: 38.25, East: -85.75, North: 38.26},
		Zoom:   15,
	}

	d := toDomainViewport(vp)
	if d.Zoom != 15 {
		t.Errorf("zoom = %d, want 15", d.Zoom)
	}
	if got := fromDomainBBox(d.Bounds); got != vp.Bounds {
		t.Errorf("bounds = %+v, want %+v", got, vp.Bounds)
	}
}

func TestIntentConstructors(t *testing.T) {
	cases := []struct {
		name   string
		intent Intent
		want   domain.IntentKind
	}{
		{"idle", IdleIntent(), domain.IntentIdle},
		{"filters", FilterIntent(), domain.IntentFilters},
		{"pan", PanIntent(), domain.IntentUserPan},
		{"drilldown", DrilldownIntent(BBox{West: -86, South: 38, East: -85, North: 39}, []string{"a"}), domain.IntentDrilldown},
	}
	for _, tc := range cases {
		if got := tc.intent.d.Kind(); got != tc.want {
			t.Errorf("%s: kind = %s, want %s", tc.name, got, tc.want)
		}
	}
}
