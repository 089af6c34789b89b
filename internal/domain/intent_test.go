package domain

import "testing"

func TestCauseCompatibleWithIntent_Table(t *testing.T) {
	drill := DrilldownIntent(BBox{West: -86, South: 38, East: -85, North: 39}, nil)

	tests := []struct {
		name   string
		cause  Cause
		intent Intent
		want   bool
	}{
		{"filters/filters", CauseFilters, FiltersIntent(), true},
		{"filters/pan", CauseFilters, UserPanIntent(), false},
		{"filters/drilldown", CauseFilters, drill, false},
		{"pan/filters", CauseUserPan, FiltersIntent(), false},
		{"pan/pan", CauseUserPan, UserPanIntent(), true},
		{"pan/drilldown", CauseUserPan, drill, true},
		{"drilldown/filters", CauseDrilldown, FiltersIntent(), false},
		{"drilldown/pan", CauseDrilldown, UserPanIntent(), true},
		{"drilldown/drilldown", CauseDrilldown, drill, true},
		{"filters/idle", CauseFilters, Idle(), false},
		{"pan/idle", CauseUserPan, Idle(), false},
		{"drilldown/idle", CauseDrilldown, Idle(), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CauseCompatibleWithIntent(tc.cause, tc.intent); got != tc.want {
				t.Errorf("CauseCompatibleWithIntent(%s, %s) = %v, want %v",
					tc.cause, tc.intent.Kind(), got, tc.want)
			}
		})
	}
}

func TestIntentCause(t *testing.T) {
	if _, ok := Idle().Cause(); ok {
		t.Fatal("idle intent must not carry a cause")
	}
	c, ok := UserPanIntent().Cause()
	if !ok || c != CauseUserPan {
		t.Fatalf("want user_pan cause, got %q ok=%v", c, ok)
	}
	c, ok = DrilldownIntent(BBox{}, []string{"a"}).Cause()
	if !ok || c != CauseDrilldown {
		t.Fatalf("want cluster_drilldown cause, got %q ok=%v", c, ok)
	}
}

func TestBBoxContains(t *testing.T) {
	b := BBox{West: -85.76, South: 38.25, East: -85.75, North: 38.26}
	if !b.Contains(38.2527, -85.7585) {
		t.Fatal("expected point inside bbox")
	}
	if b.Contains(38.2527, -85.77) {
		t.Fatal("expected point outside bbox")
	}

	// Antimeridian-crossing box around Fiji.
	f := BBox{West: 179, South: -20, East: -179, North: -15}
	if !f.Contains(-17.5, 179.5) {
		t.Fatal("expected 179.5E inside crossing box")
	}
	if !f.Contains(-17.5, -179.5) {
		t.Fatal("expected 179.5W inside crossing box")
	}
	if f.Contains(-17.5, 0) {
		t.Fatal("expected 0E outside crossing box")
	}
}
