package services

import (
	"sort"
	"time"

	"lab-system/pkg/config"
)

// ComputePriorityScore derives a work order's priority from policy data:
// SLA urgency points from the tightest matching breakpoint (or the
// overdue points once the deadline has passed), plus the source-category
// weight, plus the client-priority weight. Orders without an SLA get no
// urgency points.
func ComputePriorityScore(policy config.PriorityPolicy, sourceCategory, clientLevel string, slaDueAt *time.Time, now time.Time) int {
	score := 0

	if slaDueAt != nil {
		remaining := slaDueAt.Sub(now)
		if remaining <= 0 {
			score += policy.OverduePoints
		} else {
			breakpoints := make([]config.SLABreakpoint, len(policy.SLABreakpoints))
			copy(breakpoints, policy.SLABreakpoints)
			sort.Slice(breakpoints, func(i, j int) bool {
				return breakpoints[i].Within < breakpoints[j].Within
			})
			for _, bp := range breakpoints {
				if remaining <= bp.Within {
					score += bp.Points
					break
				}
			}
		}
	}

	if sourceCategory == "" {
		sourceCategory = policy.DefaultCategory
	}
	score += policy.SourceWeights[sourceCategory]
	score += policy.ClientPriority[clientLevel]

	return score
}
