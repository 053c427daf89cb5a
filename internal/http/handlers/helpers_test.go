package handlers

import (
	"testing"
	"time"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		in     string
		want   []int64
		wantOK bool
	}{
		{"123", []int64{123}, true},
		{"1,2,3", []int64{1, 2, 3}, true},
		{" 1 , 2 ", []int64{1, 2}, true},
		{"1,,2", []int64{1, 2}, true},
		{"abc", nil, false},
		{"1,abc", nil, false},
		{"-5", nil, false},
		{"0", nil, false},
	}

	for _, tt := range tests {
		got, ok := parseIDList(tt.in)
		if ok != tt.wantOK {
			t.Errorf("parseIDList(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseIDList(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseIDList(%q)[%d] = %d, want %d", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 24, 0},
		{1, 24, 1},
		{24, 24, 1},
		{25, 24, 2},
		{100, 100, 1},
		{101, 100, 2},
	}
	for _, tt := range tests {
		if got := totalPages(tt.total, tt.pageSize); got != tt.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.want)
		}
	}
}

func TestCardValueFormatting(t *testing.T) {
	if got := naPercentile(f64ptr(0.874)); got != 87 {
		t.Errorf("naPercentile(0.874) = %v, want 87", got)
	}
	if got := naPercentile(nil); got != na {
		t.Errorf("naPercentile(nil) = %v, want %q", got, na)
	}
	if got := naRatioPct(f64ptr(0.123)); got != "12.3%" {
		t.Errorf("naRatioPct(0.123) = %v, want 12.3%%", got)
	}
	if got := record(i64ptr(30), i64ptr(10), i64ptr(5)); got != "30-10-5" {
		t.Errorf("record = %v, want 30-10-5", got)
	}
	if got := record(nil, nil, nil); got != na {
		t.Errorf("record(nil) = %v, want %q", got, na)
	}
	if got := contractMillions(i64ptr(4_500_000)); got != "4.5M" {
		t.Errorf("contractMillions = %v, want 4.5M", got)
	}
	if got := contractMillions(nil); got != na {
		t.Errorf("contractMillions(nil) = %v, want %q", got, na)
	}
}

func TestFormatLastUpdated(t *testing.T) {
	if got := formatLastUpdated(nil); got != na {
		t.Errorf("formatLastUpdated(nil) = %q, want %q", got, na)
	}
	ts := time.Date(2025, 3, 9, 15, 4, 5, 0, time.UTC)
	if got := formatLastUpdated(&ts); got != "2025-03-09" {
		t.Errorf("formatLastUpdated = %q, want 2025-03-09", got)
	}
}

func TestLogoPath(t *testing.T) {
	got := logoPath(sptr("Toronto Maple Leafs"))
	want := "https://spreadsheet-hockey-logos.s3.us-east-1.amazonaws.com/Toronto%20Maple%20Leafs.png"
	if got == nil || *got != want {
		t.Errorf("logoPath = %v, want %q", got, want)
	}
	if logoPath(nil) != nil {
		t.Error("logoPath(nil) should be nil")
	}
}
