// file: internals/features/verification/settings/service/settings_service.go
package service

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/verification/settings/model"
)

/* =======================================================
   Snapshot — typed, immutable view of verification_settings
   Loaded once per request so every decision is reproducible
   from (session, slot, school, snapshot) alone; changes take
   effect for subsequent requests only.
   ======================================================= */

type Snapshot struct {
	ValidationRadiusMeters      float64
	MaxPhotoAgeDays             int
	RequireGPS                  bool
	StrictDateValidation        bool
	DateToleranceDays           int
	BlockFutureDates            bool
	DailyUploadLimit            int
	SuspiciousDistanceThreshold float64
	EnableAutoReject            bool
	AllowNoGPSApproval          bool
	DurationToleranceMinutes    int
	MinDurationPercent          int
	AutoApproveStartDistance    float64
	MaxTimeBeforeSlotStart      int
	MaxTimeAfterSlotEnd         int
}

// Setting keys as stored in verification_settings.
const (
	KeyValidationRadiusMeters      = "validation_radius_meters"
	KeyMaxPhotoAgeDays             = "max_photo_age_days"
	KeyRequireGPS                  = "require_gps"
	KeyStrictDateValidation        = "strict_date_validation"
	KeyDateToleranceDays           = "date_tolerance_days"
	KeyBlockFutureDates            = "block_future_dates"
	KeyDailyUploadLimit            = "daily_upload_limit"
	KeySuspiciousDistanceThreshold = "suspicious_distance_threshold"
	KeyEnableAutoReject            = "enable_auto_reject"
	KeyAllowNoGPSApproval          = "allow_no_gps_approval"
	KeyDurationToleranceMinutes    = "duration_tolerance_minutes"
	KeyMinDurationPercent          = "min_duration_percent"
	KeyAutoApproveStartDistance    = "auto_approve_start_distance"
	KeyMaxTimeBeforeSlotStart      = "max_time_before_slot_start"
	KeyMaxTimeAfterSlotEnd         = "max_time_after_slot_end"
)

// Defaults applied when a key is missing or unparseable.
var Defaults = map[string]string{
	KeyValidationRadiusMeters:      "200",
	KeyMaxPhotoAgeDays:             "7",
	KeyRequireGPS:                  "true",
	KeyStrictDateValidation:        "true",
	KeyDateToleranceDays:           "1",
	KeyBlockFutureDates:            "true",
	KeyDailyUploadLimit:            "5",
	KeySuspiciousDistanceThreshold: "1000",
	KeyEnableAutoReject:            "true",
	KeyAllowNoGPSApproval:          "false",
	KeyDurationToleranceMinutes:    "15",
	KeyMinDurationPercent:          "80",
	KeyAutoApproveStartDistance:    "100",
	KeyMaxTimeBeforeSlotStart:      "60",  // minutes before slot start a start photo is plausible
	KeyMaxTimeAfterSlotEnd:         "120", // minutes after slot end an end photo is plausible
}

// KnownKeys is the closed set of accepted setting keys.
func KnownKeys() []string {
	keys := make([]string, 0, len(Defaults))
	for k := range Defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func IsKnownKey(key string) bool {
	_, ok := Defaults[key]
	return ok
}

/* =======================================================
   Service
   ======================================================= */

type Service struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{DB: db} }

// Load reads all verification_settings rows once and materializes a typed
// Snapshot. Missing or garbled values fall back to Defaults; loading never
// fails on bad content, only on storage errors.
func (s *Service) Load() (Snapshot, error) {
	var rows []model.VerificationSettingModel
	if err := s.DB.Find(&rows).Error; err != nil {
		return Snapshot{}, err
	}
	values := make(map[string]string, len(rows))
	for _, r := range rows {
		values[r.VerificationSettingKey] = r.VerificationSettingValue
	}
	return FromValues(values), nil
}

// FromValues builds a Snapshot from raw key→string values (exported so
// tests and the alerts aggregator can build snapshots without storage).
func FromValues(values map[string]string) Snapshot {
	get := func(key string) string {
		if v, ok := values[key]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return Defaults[key]
	}
	return Snapshot{
		ValidationRadiusMeters:      parseFloat(get(KeyValidationRadiusMeters), KeyValidationRadiusMeters),
		MaxPhotoAgeDays:             parseInt(get(KeyMaxPhotoAgeDays), KeyMaxPhotoAgeDays),
		RequireGPS:                  parseBool(get(KeyRequireGPS), KeyRequireGPS),
		StrictDateValidation:        parseBool(get(KeyStrictDateValidation), KeyStrictDateValidation),
		DateToleranceDays:           parseInt(get(KeyDateToleranceDays), KeyDateToleranceDays),
		BlockFutureDates:            parseBool(get(KeyBlockFutureDates), KeyBlockFutureDates),
		DailyUploadLimit:            parseInt(get(KeyDailyUploadLimit), KeyDailyUploadLimit),
		SuspiciousDistanceThreshold: parseFloat(get(KeySuspiciousDistanceThreshold), KeySuspiciousDistanceThreshold),
		EnableAutoReject:            parseBool(get(KeyEnableAutoReject), KeyEnableAutoReject),
		AllowNoGPSApproval:          parseBool(get(KeyAllowNoGPSApproval), KeyAllowNoGPSApproval),
		DurationToleranceMinutes:    parseInt(get(KeyDurationToleranceMinutes), KeyDurationToleranceMinutes),
		MinDurationPercent:          parseInt(get(KeyMinDurationPercent), KeyMinDurationPercent),
		AutoApproveStartDistance:    parseFloat(get(KeyAutoApproveStartDistance), KeyAutoApproveStartDistance),
		MaxTimeBeforeSlotStart:      parseInt(get(KeyMaxTimeBeforeSlotStart), KeyMaxTimeBeforeSlotStart),
		MaxTimeAfterSlotEnd:         parseInt(get(KeyMaxTimeAfterSlotEnd), KeyMaxTimeAfterSlotEnd),
	}
}

func parseBool(v, key string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return Defaults[key] == "true"
}

func parseInt(v, key string) int {
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	n, _ := strconv.Atoi(Defaults[key])
	return n
}

func parseFloat(v, key string) float64 {
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	f, _ := strconv.ParseFloat(Defaults[key], 64)
	return f
}

/* =======================================================
   Admin mutations
   ======================================================= */

// EffectiveSetting is one key with its stored and default values.
type EffectiveSetting struct {
	Key        string `json:"key"`
	Value      string `json:"value"`
	Default    string `json:"default"`
	Overridden bool   `json:"overridden"`
}

// ListEffective returns every known key with its effective value.
func (s *Service) ListEffective() ([]EffectiveSetting, error) {
	var rows []model.VerificationSettingModel
	if err := s.DB.Find(&rows).Error; err != nil {
		return nil, err
	}
	stored := make(map[string]string, len(rows))
	for _, r := range rows {
		stored[r.VerificationSettingKey] = r.VerificationSettingValue
	}

	out := make([]EffectiveSetting, 0, len(Defaults))
	for key, def := range Defaults {
		es := EffectiveSetting{Key: key, Value: def, Default: def}
		if v, ok := stored[key]; ok {
			es.Value = v
			es.Overridden = true
		}
		out = append(out, es)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// ErrUnknownKey rejects writes outside the closed key set.
var ErrUnknownKey = errors.New("unknown verification setting key")

// UpdateBatch upserts a set of known keys. Unknown keys are rejected before
// any write so a batch is all-or-nothing.
func (s *Service) UpdateBatch(values map[string]string, updatedBy *uuid.UUID) error {
	for key := range values {
		if !IsKnownKey(key) {
			return ErrUnknownKey
		}
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		for key, val := range values {
			res := tx.Model(&model.VerificationSettingModel{}).
				Where("verification_setting_key = ?", key).
				Updates(map[string]any{
					"verification_setting_value":      val,
					"verification_setting_updated_by": updatedBy,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				row := model.VerificationSettingModel{
					VerificationSettingKey:       key,
					VerificationSettingValue:     val,
					VerificationSettingUpdatedBy: updatedBy,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
