// file: internals/features/verification/ratelimit/service/rate_limiter.go
package service

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/verification/ratelimit/model"
)

/* =======================================================
   CounterStore — storage behind the daily upload quota
   ======================================================= */

// TeacherCount pairs a teacher with today's upload count.
type TeacherCount struct {
	TeacherID uuid.UUID `json:"teacher_id"`
	Count     int       `json:"count"`
}

type CounterStore interface {
	// IncrementIfBelow bumps the (teacher, day) counter by one in a single
	// atomic statement, but only while the stored count is below limit.
	// Returns the resulting count and whether the increment was applied.
	// Two near-simultaneous submissions can never both slip under the limit.
	IncrementIfBelow(teacherID uuid.UUID, date time.Time, limit int) (count int, allowed bool, err error)
	Count(teacherID uuid.UUID, date time.Time) (int, error)
	Reset(teacherID uuid.UUID, date time.Time) error
	AtOrAboveLimit(date time.Time, limit int) ([]TeacherCount, error)
}

/* =======================================================
   GORM implementation
   ======================================================= */

type gormCounterStore struct {
	db *gorm.DB
}

func NewCounterStore(db *gorm.DB) CounterStore { return &gormCounterStore{db: db} }

func (s *gormCounterStore) IncrementIfBelow(teacherID uuid.UUID, date time.Time, limit int) (int, bool, error) {
	day := dateOnly(date)

	// Single conditional upsert: the WHERE on the conflict arm makes the
	// check-and-increment atomic, eliminating the count-then-insert race.
	var count int
	res := s.db.Raw(`
		INSERT INTO teacher_upload_counters
			(teacher_upload_counter_teacher_id, teacher_upload_counter_date, teacher_upload_counter_count)
		VALUES (?, ?, 1)
		ON CONFLICT (teacher_upload_counter_teacher_id, teacher_upload_counter_date)
		DO UPDATE SET
			teacher_upload_counter_count = teacher_upload_counters.teacher_upload_counter_count + 1,
			teacher_upload_counter_updated_at = now()
		WHERE teacher_upload_counters.teacher_upload_counter_count < ?
		RETURNING teacher_upload_counter_count`,
		teacherID, day, limit,
	).Scan(&count)
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		// Conflict arm refused: already at or above the limit.
		current, err := s.Count(teacherID, day)
		if err != nil {
			return 0, false, err
		}
		return current, false, nil
	}
	return count, true, nil
}

func (s *gormCounterStore) Count(teacherID uuid.UUID, date time.Time) (int, error) {
	var row model.TeacherUploadCounterModel
	err := s.db.
		Where("teacher_upload_counter_teacher_id = ? AND teacher_upload_counter_date = ?", teacherID, dateOnly(date)).
		Take(&row).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.TeacherUploadCounterCount, nil
}

func (s *gormCounterStore) Reset(teacherID uuid.UUID, date time.Time) error {
	return s.db.Model(&model.TeacherUploadCounterModel{}).
		Where("teacher_upload_counter_teacher_id = ? AND teacher_upload_counter_date = ?", teacherID, dateOnly(date)).
		Update("teacher_upload_counter_count", 0).Error
}

func (s *gormCounterStore) AtOrAboveLimit(date time.Time, limit int) ([]TeacherCount, error) {
	var rows []model.TeacherUploadCounterModel
	err := s.db.
		Where("teacher_upload_counter_date = ? AND teacher_upload_counter_count >= ?", dateOnly(date), limit).
		Order("teacher_upload_counter_count DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]TeacherCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, TeacherCount{
			TeacherID: r.TeacherUploadCounterTeacherID,
			Count:     r.TeacherUploadCounterCount,
		})
	}
	return out, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

/* =======================================================
   RateLimiter
   ======================================================= */

type RateLimiter struct {
	Store CounterStore
}

func NewRateLimiter(store CounterStore) *RateLimiter {
	return &RateLimiter{Store: store}
}

// CheckAndIncrement consumes one upload slot for the teacher's day.
// Allowed iff the pre-increment count was below limit; the returned count is
// the stored value after the call either way.
func (rl *RateLimiter) CheckAndIncrement(teacherID uuid.UUID, date time.Time, limit int) (allowed bool, count int, err error) {
	count, allowed, err = rl.Store.IncrementIfBelow(teacherID, date, limit)
	return allowed, count, err
}

// Peek reads today's count without consuming a slot.
func (rl *RateLimiter) Peek(teacherID uuid.UUID, date time.Time) (int, error) {
	return rl.Store.Count(teacherID, date)
}

// Reset clears the teacher's counter for the day (admin override).
func (rl *RateLimiter) Reset(teacherID uuid.UUID, date time.Time) error {
	return rl.Store.Reset(teacherID, date)
}

// TeachersAtLimit lists teachers at or above the daily limit, for operators.
func (rl *RateLimiter) TeachersAtLimit(date time.Time, limit int) ([]TeacherCount, error) {
	return rl.Store.AtOrAboveLimit(date, limit)
}
