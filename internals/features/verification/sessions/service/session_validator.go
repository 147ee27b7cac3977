// file: internals/features/verification/sessions/service/session_validator.go
package service

import (
	"fmt"
	"time"

	schoolModel "schoolku_backend/internals/features/school/schools/model"
	slotModel "schoolku_backend/internals/features/school/slots/model"
	durationService "schoolku_backend/internals/features/verification/duration/service"
	geoService "schoolku_backend/internals/features/verification/geofence/service"
	"schoolku_backend/internals/features/verification/sessions/model"
	settingsService "schoolku_backend/internals/features/verification/settings/service"
)

/* =======================================================
   Decision outputs
   ======================================================= */

// Report is the structured validation result for one session. Deterministic:
// the same (session, slot, school, snapshot, now) always yields the same
// report.
type Report struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Info     []string `json:"info"`

	RequiresManualReview bool `json:"requires_manual_review"`

	StartLocation  geoService.Classification      `json:"start_location"`
	EndLocation    geoService.Classification      `json:"end_location"`
	DurationStatus durationService.DurationStatus `json:"duration_status,omitempty"`
}

// RejectVerdict is the auto-reject decision with its first-match reason.
type RejectVerdict struct {
	Reject bool   `json:"reject"`
	Reason string `json:"reason,omitempty"`
}

/* =======================================================
   Decision engine — pure over (session, slot, school,
   settings snapshot, now). Holds no state and does no I/O.
   ======================================================= */

// effectiveRadius prefers the school's configured radius, falling back to the
// process-wide default when a school has none.
func effectiveRadius(school *schoolModel.SchoolModel, set settingsService.Snapshot) float64 {
	if school != nil && school.SchoolAllowedRadius > 0 {
		return school.SchoolAllowedRadius
	}
	return set.ValidationRadiusMeters
}

func classifyBoth(sess *model.TeachingSessionModel, school *schoolModel.SchoolModel, set settingsService.Snapshot) (start, end geoService.Classification) {
	var schoolLat, schoolLng *float64
	if school != nil {
		schoolLat = school.SchoolGpsLatitude
		schoolLng = school.SchoolGpsLongitude
	}
	radius := effectiveRadius(school, set)
	start = geoService.Classify(sess.TeachingSessionStartGpsLatitude, sess.TeachingSessionStartGpsLongitude, schoolLat, schoolLng, radius)
	end = geoService.Classify(sess.TeachingSessionEndGpsLatitude, sess.TeachingSessionEndGpsLongitude, schoolLat, schoolLng, radius)
	return start, end
}

func dateMatches(photoAt *time.Time, slotDate time.Time, toleranceDays int) bool {
	if photoAt == nil {
		return true // nothing to compare yet
	}
	py, pm, pd := photoAt.Date()
	sy, sm, sd := slotDate.Date()
	photo := time.Date(py, pm, pd, 0, 0, 0, 0, time.UTC)
	slot := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	diff := photo.Sub(slot)
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Duration(toleranceDays)*24*time.Hour
}

func durationStatusOf(sess *model.TeachingSessionModel, slot *slotModel.TeachingSlotModel, set settingsService.Snapshot) durationService.DurationStatus {
	if sess.TeachingSessionStartPhotoTakenAt == nil || sess.TeachingSessionEndPhotoTakenAt == nil {
		return ""
	}
	expected := durationService.ExpectedMinutes(slot.TeachingSlotStartTime, slot.TeachingSlotEndTime)
	actual := durationService.ActualMinutes(*sess.TeachingSessionStartPhotoTakenAt, *sess.TeachingSessionEndPhotoTakenAt)
	return durationService.Classify(actual, expected, set.DurationToleranceMinutes, set.MinDurationPercent)
}

// ValidateSession runs every applicable check and buckets the findings.
// RequiresManualReview is true whenever a warning exists and auto-reject did
// not fire.
func ValidateSession(sess *model.TeachingSessionModel, slot *slotModel.TeachingSlotModel, school *schoolModel.SchoolModel, set settingsService.Snapshot, now time.Time) Report {
	rep := Report{
		Errors:   []string{},
		Warnings: []string{},
		Info:     []string{},
	}
	rep.StartLocation, rep.EndLocation = classifyBoth(sess, school, set)

	// GPS presence
	if set.RequireGPS {
		if sess.HasStartEvidence() && !sess.HasStartGPS() {
			rep.Errors = append(rep.Errors, "start photo has no GPS data but GPS is required")
		}
		if sess.HasEndEvidence() && !sess.HasEndGPS() {
			rep.Errors = append(rep.Errors, "end photo has no GPS data but GPS is required")
		}
	}

	// School geofence configuration degrades to unknown, never to failure.
	if school == nil || !school.HasLocation() {
		rep.Warnings = append(rep.Warnings, "school has no registered GPS location; distance could not be verified")
	} else {
		for _, c := range []struct {
			label string
			cls   geoService.Classification
		}{
			{"start", rep.StartLocation},
			{"end", rep.EndLocation},
		} {
			switch c.cls.Status {
			case geoService.LocationMismatched:
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s photo is %.0f m from school, outside the %.0f m geofence",
					c.label, *c.cls.Distance, effectiveRadius(school, set)))
			case geoService.LocationMatched:
				rep.Info = append(rep.Info, fmt.Sprintf("%s photo is %.0f m from school, inside the geofence", c.label, *c.cls.Distance))
			}
		}
	}

	// Photo date vs slot date
	for _, p := range []struct {
		label string
		at    *time.Time
	}{
		{"start", sess.TeachingSessionStartPhotoTakenAt},
		{"end", sess.TeachingSessionEndPhotoTakenAt},
	} {
		if p.at == nil {
			continue
		}
		if set.BlockFutureDates && p.at.After(now) {
			rep.Errors = append(rep.Errors, fmt.Sprintf("%s photo is timestamped in the future", p.label))
		}
		if !dateMatches(p.at, slot.TeachingSlotDate, set.DateToleranceDays) {
			msg := fmt.Sprintf("%s photo date %s does not match slot date %s",
				p.label, p.at.Format("2006-01-02"), slot.TeachingSlotDate.Format("2006-01-02"))
			if set.StrictDateValidation {
				rep.Errors = append(rep.Errors, msg)
			} else {
				rep.Warnings = append(rep.Warnings, msg)
			}
		}
	}

	// Photo freshness: taken vs uploaded
	if set.MaxPhotoAgeDays > 0 {
		for _, p := range []struct {
			label    string
			taken    *time.Time
			uploaded *time.Time
		}{
			{"start", sess.TeachingSessionStartPhotoTakenAt, sess.TeachingSessionStartPhotoUploadedAt},
			{"end", sess.TeachingSessionEndPhotoTakenAt, sess.TeachingSessionEndPhotoUploadedAt},
		} {
			if p.taken == nil || p.uploaded == nil {
				continue
			}
			if p.uploaded.Sub(*p.taken) > time.Duration(set.MaxPhotoAgeDays)*24*time.Hour {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s photo was taken more than %d days before upload", p.label, set.MaxPhotoAgeDays))
			}
		}
	}

	// Submission timing vs the slot window
	slotStart := slotMoment(slot.TeachingSlotDate, slot.TeachingSlotStartTime.Hour(), slot.TeachingSlotStartTime.Minute())
	slotEnd := slotMoment(slot.TeachingSlotDate, slot.TeachingSlotEndTime.Hour(), slot.TeachingSlotEndTime.Minute())
	if !slotEnd.After(slotStart) {
		slotEnd = slotEnd.Add(24 * time.Hour) // crosses midnight
	}
	if at := sess.TeachingSessionStartPhotoTakenAt; at != nil && set.MaxTimeBeforeSlotStart > 0 {
		if slotStart.Sub(*at) > time.Duration(set.MaxTimeBeforeSlotStart)*time.Minute {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("start photo was taken more than %d minutes before the slot starts", set.MaxTimeBeforeSlotStart))
		}
	}
	if at := sess.TeachingSessionEndPhotoTakenAt; at != nil && set.MaxTimeAfterSlotEnd > 0 {
		if at.Sub(slotEnd) > time.Duration(set.MaxTimeAfterSlotEnd)*time.Minute {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("end photo was taken more than %d minutes after the slot ends", set.MaxTimeAfterSlotEnd))
		}
	}

	// Duration
	if ds := durationStatusOf(sess, slot, set); ds != "" {
		rep.DurationStatus = ds
		expected := durationService.ExpectedMinutes(slot.TeachingSlotStartTime, slot.TeachingSlotEndTime)
		actual := durationService.ActualMinutes(*sess.TeachingSessionStartPhotoTakenAt, *sess.TeachingSessionEndPhotoTakenAt)
		detail := fmt.Sprintf("photographed %s of an expected %s",
			durationService.FormatMinutes(actual), durationService.FormatMinutes(expected))
		switch ds {
		case durationService.DurationVerified, durationService.DurationExtended:
			rep.Info = append(rep.Info, "duration "+string(ds)+": "+detail)
		case durationService.DurationShort, durationService.DurationWarning:
			rep.Warnings = append(rep.Warnings, "duration "+string(ds)+": "+detail)
		case durationService.DurationRejected, durationService.DurationInvalid:
			rep.Errors = append(rep.Errors, "duration "+string(ds)+": "+detail)
		}
	}

	verdict := CheckAutoReject(sess, slot, school, set)
	rep.RequiresManualReview = len(rep.Warnings) > 0 && !verdict.Reject

	return rep
}

func slotMoment(date time.Time, hour, minute int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}

// CheckAutoReject evaluates the hard-stop rules in priority order; the first
// match wins. The suspicious-distance rule is absolute: any evidence distance
// beyond SuspiciousDistanceThreshold meters fires regardless of the school
// radius.
func CheckAutoReject(sess *model.TeachingSessionModel, slot *slotModel.TeachingSlotModel, school *schoolModel.SchoolModel, set settingsService.Snapshot) RejectVerdict {
	// 1) Feature gate
	if !set.EnableAutoReject {
		return RejectVerdict{}
	}

	// 2) Suspicious distance
	start, end := classifyBoth(sess, school, set)
	for _, c := range []struct {
		label string
		cls   geoService.Classification
	}{
		{"start", start},
		{"end", end},
	} {
		if c.cls.Distance != nil && *c.cls.Distance > set.SuspiciousDistanceThreshold {
			return RejectVerdict{
				Reject: true,
				Reason: fmt.Sprintf("%s photo is %.0f m from school, beyond the suspicious distance threshold of %.0f m",
					c.label, *c.cls.Distance, set.SuspiciousDistanceThreshold),
			}
		}
	}

	// 3) Severe duration shortfall
	if ds := durationStatusOf(sess, slot, set); ds == durationService.DurationRejected {
		return RejectVerdict{
			Reject: true,
			Reason: fmt.Sprintf("photographed duration is below %d%% of the scheduled slot", set.MinDurationPercent),
		}
	}

	// 4) Date mismatch under strict validation
	if set.StrictDateValidation {
		for _, p := range []struct {
			label string
			at    *time.Time
		}{
			{"start", sess.TeachingSessionStartPhotoTakenAt},
			{"end", sess.TeachingSessionEndPhotoTakenAt},
		} {
			if p.at != nil && !dateMatches(p.at, slot.TeachingSlotDate, set.DateToleranceDays) {
				return RejectVerdict{
					Reject: true,
					Reason: fmt.Sprintf("%s photo date does not match the slot date", p.label),
				}
			}
		}
	}

	// 5) GPS required but absent
	if set.RequireGPS {
		if sess.HasStartEvidence() && !sess.HasStartGPS() {
			return RejectVerdict{Reject: true, Reason: "start photo has no GPS data"}
		}
		if sess.HasEndEvidence() && !sess.HasEndGPS() {
			return RejectVerdict{Reject: true, Reason: "end photo has no GPS data"}
		}
	}

	return RejectVerdict{}
}

// CheckAutoApprove is true only when every condition holds. Auto-reject is
// checked first and always wins; the two verdicts are mutually exclusive.
func CheckAutoApprove(sess *model.TeachingSessionModel, slot *slotModel.TeachingSlotModel, school *schoolModel.SchoolModel, set settingsService.Snapshot) bool {
	if CheckAutoReject(sess, slot, school, set).Reject {
		return false
	}

	start, end := classifyBoth(sess, school, set)

	// Start distance within the auto-approve band.
	if start.Distance == nil || *start.Distance > set.AutoApproveStartDistance {
		return false
	}
	// Neither photo outside the geofence.
	if start.Status == geoService.LocationMismatched || end.Status == geoService.LocationMismatched {
		return false
	}
	// Duration verified or extended.
	ds := durationStatusOf(sess, slot, set)
	if ds != durationService.DurationVerified && ds != durationService.DurationExtended {
		return false
	}
	// Dates match.
	if !dateMatches(sess.TeachingSessionStartPhotoTakenAt, slot.TeachingSlotDate, set.DateToleranceDays) ||
		!dateMatches(sess.TeachingSessionEndPhotoTakenAt, slot.TeachingSlotDate, set.DateToleranceDays) {
		return false
	}
	// GPS present when required (unless no-GPS approval is explicitly allowed).
	if set.RequireGPS && !set.AllowNoGPSApproval {
		if !sess.HasStartGPS() || !sess.HasEndGPS() {
			return false
		}
	}

	return true
}
