// file: internals/features/verification/duration/service/duration_validator.go
package service

import (
	"fmt"
	"time"

	"schoolku_backend/internals/helpers/dbtime"
)

/* =======================================================
   Duration classification
   ======================================================= */

type DurationStatus string

const (
	DurationVerified DurationStatus = "verified"
	DurationExtended DurationStatus = "extended"
	DurationShort    DurationStatus = "short"
	DurationWarning  DurationStatus = "warning"
	DurationRejected DurationStatus = "rejected"
	DurationInvalid  DurationStatus = "invalid"
)

// ExpectedMinutes returns the scheduled slot length in minutes.
// When end < start the slot crosses midnight and 24h is added; a slot is
// never interpreted as negative or zero-length because of clock order.
func ExpectedMinutes(start, end dbtime.Tod) int {
	mins := end.MinutesOfDay() - start.MinutesOfDay()
	if mins < 0 {
		mins += 24 * 60
	}
	return mins
}

// ActualMinutes returns the wall-clock minutes between the two photo
// timestamps. Negative results are preserved so Classify can flag them.
func ActualMinutes(startAt, endAt time.Time) int {
	return int(endAt.Sub(startAt).Minutes())
}

// Verify reports whether an actual duration satisfies the expected one
// within tolerance. Running long is never penalized; only running short.
func Verify(actual, expected, toleranceMinutes int) bool {
	return actual >= expected-toleranceMinutes
}

// MeetsMinimum reports whether the actual duration reaches the configured
// minimum percentage of the expected duration.
func MeetsMinimum(actual, expected, minPercent int) bool {
	return float64(actual) >= float64(expected)*float64(minPercent)/100.0
}

// Classify buckets an actual-vs-expected duration pair:
//
//	invalid  — negative actual or non-positive expected
//	rejected — below the minimum percentage (drives auto-reject)
//	short    — above minimum but below the tolerance band
//	verified — within [expected-tolerance, expected+tolerance]
//	extended — above the tolerance band
//	warning  — fallback for anything else
func Classify(actual, expected, toleranceMinutes, minPercent int) DurationStatus {
	if actual < 0 || expected <= 0 {
		return DurationInvalid
	}
	if !MeetsMinimum(actual, expected, minPercent) {
		return DurationRejected
	}
	switch {
	case actual < expected-toleranceMinutes:
		return DurationShort
	case actual <= expected+toleranceMinutes:
		return DurationVerified
	case actual > expected+toleranceMinutes:
		return DurationExtended
	}
	return DurationWarning
}

// FormatMinutes renders minutes as "XhYm" for display. No decision role.
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		return fmt.Sprintf("-%s", FormatMinutes(-minutes))
	}
	return fmt.Sprintf("%dh%dm", minutes/60, minutes%60)
}
