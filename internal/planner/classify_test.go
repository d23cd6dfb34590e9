package planner

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		due  time.Duration // offset from now
		want Urgency
	}{
		{"one second overdue", -time.Second, Overdue},
		{"a week overdue", -7 * 24 * time.Hour, Overdue},
		{"due right now", 0, Urgent},
		{"due tomorrow", 24 * time.Hour, Urgent},
		{"exactly two days", 48 * time.Hour, Urgent},
		{"just past two days", 48*time.Hour + time.Second, ThisWeek},
		{"five days out", 5 * 24 * time.Hour, ThisWeek},
		{"exactly seven days", 7 * 24 * time.Hour, ThisWeek},
		{"just past seven days", 7*24*time.Hour + time.Second, Upcoming},
		{"a month out", 30 * 24 * time.Hour, Upcoming},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			due := now.Add(tc.due)
			if got := Classify(&due, now); got != tc.want {
				t.Errorf("Classify(now%+v) = %s, want %s", tc.due, got, tc.want)
			}
		})
	}
}

func TestClassifyNoDueDate(t *testing.T) {
	t.Parallel()

	for _, now := range []time.Time{
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC),
	} {
		if got := Classify(nil, now); got != Upcoming {
			t.Errorf("Classify(nil, %v) = %s, want Upcoming", now, got)
		}
	}
}
