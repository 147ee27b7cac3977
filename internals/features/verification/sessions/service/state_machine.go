// file: internals/features/verification/sessions/service/state_machine.go
package service

import (
	"errors"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/verification/sessions/model"
)

/* =======================================================
   Actions
   ======================================================= */

type Action string

const (
	ActionSubmitStartPhoto Action = "submit_start_photo"
	ActionApproveStart     Action = "approve_start"
	ActionSubmitEndPhoto   Action = "submit_end_photo"
	ActionApprove          Action = "approve"
	ActionReject           Action = "reject"
	ActionRequestResubmit  Action = "request_resubmit"
)

var (
	// ErrInvalidTransition: the action is never legal from the current status.
	ErrInvalidTransition = errors.New("invalid transition for current session status")
	// ErrStaleState: the stored status changed between read and write; the
	// action was already processed by a concurrent request.
	ErrStaleState = errors.New("session already processed")
	// ErrRemarksRequired: reject needs a non-empty remark.
	ErrRemarksRequired = errors.New("remarks are required")
)

/* =======================================================
   Transition table — reject-by-default: any (status, action)
   pair not listed here is illegal.
   ======================================================= */

var transitions = map[model.SessionStatus]map[Action]model.SessionStatus{
	model.SessionPending: {
		ActionSubmitStartPhoto: model.SessionStartSubmitted,
		ActionReject:           model.SessionRejected,
	},
	model.SessionStartSubmitted: {
		ActionApproveStart:    model.SessionStartApproved,
		ActionReject:          model.SessionRejected,
		ActionRequestResubmit: model.SessionPending,
	},
	model.SessionStartApproved: {
		ActionSubmitEndPhoto:  model.SessionEndSubmitted,
		ActionApprove:         model.SessionApproved, // legacy single-photo approval
		ActionReject:          model.SessionRejected,
		ActionRequestResubmit: model.SessionPending,
	},
	model.SessionEndSubmitted: {
		ActionApprove:         model.SessionApproved,
		ActionReject:          model.SessionRejected,
		ActionRequestResubmit: model.SessionStartApproved,
	},
	// approved / rejected are terminal: no entries.
}

// NextStatus resolves the target status for (from, action), or
// ErrInvalidTransition when the pair is not in the table.
func NextStatus(from model.SessionStatus, action Action) (model.SessionStatus, error) {
	if acts, ok := transitions[from]; ok {
		if to, ok := acts[action]; ok {
			return to, nil
		}
	}
	return "", ErrInvalidTransition
}

// LegalActions lists the actions accepted from a status, for UI rendering.
func LegalActions(from model.SessionStatus) []Action {
	acts := transitions[from]
	out := make([]Action, 0, len(acts))
	for a := range acts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

/* =======================================================
   SessionStore — conditional writes behind the state machine
   ======================================================= */

type SessionStore interface {
	Get(id uuid.UUID) (*model.TeachingSessionModel, error)
	// UpdateIfStatus applies updates only while the stored status still equals
	// expected (optimistic concurrency). Returns false when no row matched:
	// a concurrent action won, nothing was written.
	UpdateIfStatus(id uuid.UUID, expected model.SessionStatus, updates map[string]any) (bool, error)
	CompleteEnrollment(enrollmentID uuid.UUID) error
}

type gormSessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) SessionStore { return &gormSessionStore{db: db} }

func (s *gormSessionStore) Get(id uuid.UUID) (*model.TeachingSessionModel, error) {
	var sess model.TeachingSessionModel
	if err := s.db.First(&sess, "teaching_session_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *gormSessionStore) UpdateIfStatus(id uuid.UUID, expected model.SessionStatus, updates map[string]any) (bool, error) {
	res := s.db.Model(&model.TeachingSessionModel{}).
		Where("teaching_session_id = ? AND teaching_session_status = ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *gormSessionStore) CompleteEnrollment(enrollmentID uuid.UUID) error {
	return s.db.Table("slot_enrollments").
		Where("slot_enrollment_id = ?", enrollmentID).
		Update("slot_enrollment_status", "completed").Error
}

/* =======================================================
   StateMachine — applies one transition with a conditional
   write; the caller supplies the action's column updates.
   ======================================================= */

type StateMachine struct {
	Store SessionStore
}

func NewStateMachine(store SessionStore) *StateMachine {
	return &StateMachine{Store: store}
}

// Apply moves the session from its current status through action. The
// updates map carries the action's side-effect columns; the status column is
// added here. Under two concurrent actions exactly one succeeds and the
// other gets ErrStaleState — never a lost update or double approval.
func (sm *StateMachine) Apply(sess *model.TeachingSessionModel, action Action, updates map[string]any) (model.SessionStatus, error) {
	next, err := NextStatus(sess.TeachingSessionStatus, action)
	if err != nil {
		return sess.TeachingSessionStatus, err
	}

	if updates == nil {
		updates = map[string]any{}
	}
	updates["teaching_session_status"] = next

	ok, err := sm.Store.UpdateIfStatus(sess.TeachingSessionID, sess.TeachingSessionStatus, updates)
	if err != nil {
		return sess.TeachingSessionStatus, err
	}
	if !ok {
		return sess.TeachingSessionStatus, ErrStaleState
	}

	sess.TeachingSessionStatus = next
	return next, nil
}
