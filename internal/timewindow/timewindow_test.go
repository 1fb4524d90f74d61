package timewindow

import (
	"testing"
	"time"
)

var base = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestIsFuture(t *testing.T) {
	cases := []struct {
		name      string
		departure time.Time
		want      bool
	}{
		{"one minute ahead", base.Add(time.Minute), true},
		{"exactly now", base, false},
		{"one minute ago", base.Add(-time.Minute), false},
	}
	for _, tc := range cases {
		if got := IsFuture(tc.departure, base); got != tc.want {
			t.Errorf("%s: IsFuture = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCancellationOpen(t *testing.T) {
	cases := []struct {
		name      string
		departure time.Time
		want      bool
	}{
		{"two hours ahead", base.Add(2 * time.Hour), true},
		{"just over an hour", base.Add(time.Hour + time.Minute), true},
		{"exactly one hour", base.Add(time.Hour), false},
		{"thirty minutes", base.Add(30 * time.Minute), false},
		{"already departed", base.Add(-time.Hour), false},
	}
	for _, tc := range cases {
		if got := CancellationOpen(tc.departure, base); got != tc.want {
			t.Errorf("%s: CancellationOpen = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCombine(t *testing.T) {
	date := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	clock := time.Date(0, 1, 1, 14, 30, 45, 0, time.UTC)
	got := Combine(date, clock)
	want := time.Date(2025, 6, 20, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Combine = %v, want %v (seconds must be dropped)", got, want)
	}
}

func TestFixedClock(t *testing.T) {
	c := FixedClock{T: base}
	if !c.Now().Equal(base) {
		t.Errorf("FixedClock.Now = %v, want %v", c.Now(), base)
	}
}
