package triage

import "time"

const defaultResolutionDays = 30

var resolutionDays = map[int]int{5: 1, 4: 3, 3: 7, 2: 14}

// ResolutionDays is the SLA window for a priority tier.
func ResolutionDays(priority int) int {
	if days, ok := resolutionDays[priority]; ok {
		return days
	}
	return defaultResolutionDays
}

// ExpectedResolution is from plus the SLA window for priority.
func ExpectedResolution(from time.Time, priority int) time.Time {
	return from.AddDate(0, 0, ResolutionDays(priority))
}

// DefaultResolutionWindow applies to complaints that have not been triaged yet.
func DefaultResolutionWindow() time.Duration {
	return defaultResolutionDays * 24 * time.Hour
}
