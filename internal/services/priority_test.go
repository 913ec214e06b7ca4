package services

import (
	"testing"
	"time"

	"lab-system/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestComputePriorityScore(t *testing.T) {
	policy := config.DefaultPriorityPolicy()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	due := func(d time.Duration) *time.Time {
		ts := now.Add(d)
		return &ts
	}

	cases := []struct {
		name     string
		source   string
		client   string
		slaDueAt *time.Time
		want     int
	}{
		{"no sla, no weights", "", "", nil, 5}, // default category only
		{"due within a day", "production", "normal", due(6 * time.Hour), 40 + 20 + 10},
		{"exactly at 24h uses tightest band", "internal", "low", due(24 * time.Hour), 40 + 5},
		{"due within three days", "qualification", "high", due(48 * time.Hour), 25 + 15 + 20},
		{"due within a week", "internal", "normal", due(120 * time.Hour), 10 + 5 + 10},
		{"far future gets no urgency", "field_return", "critical", due(400 * time.Hour), 30 + 30},
		{"overdue", "field_return", "critical", due(-time.Hour), 50 + 30 + 30},
		{"deadline right now is overdue", "internal", "low", due(0), 50 + 5},
		{"unknown source and client score zero weight", "walk_in", "vip", due(6 * time.Hour), 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputePriorityScore(policy, tc.source, tc.client, tc.slaDueAt, now)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestComputePriorityScore_BreakpointOrderIrrelevant(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	due := now.Add(6 * time.Hour)
	policy := config.PriorityPolicy{
		SLABreakpoints: []config.SLABreakpoint{
			{Within: 168 * time.Hour, Points: 10},
			{Within: 24 * time.Hour, Points: 40},
			{Within: 72 * time.Hour, Points: 25},
		},
	}

	assert.Equal(t, 40, ComputePriorityScore(policy, "", "", &due, now),
		"the tightest matching breakpoint wins regardless of declaration order")
}
