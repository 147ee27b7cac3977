package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/features/verification/sessions/model"
)

func TestNextStatus_LegalTransitions(t *testing.T) {
	tests := []struct {
		from   model.SessionStatus
		action Action
		to     model.SessionStatus
	}{
		{model.SessionPending, ActionSubmitStartPhoto, model.SessionStartSubmitted},
		{model.SessionPending, ActionReject, model.SessionRejected},
		{model.SessionStartSubmitted, ActionApproveStart, model.SessionStartApproved},
		{model.SessionStartSubmitted, ActionReject, model.SessionRejected},
		{model.SessionStartSubmitted, ActionRequestResubmit, model.SessionPending},
		{model.SessionStartApproved, ActionSubmitEndPhoto, model.SessionEndSubmitted},
		{model.SessionStartApproved, ActionApprove, model.SessionApproved},
		{model.SessionStartApproved, ActionReject, model.SessionRejected},
		{model.SessionStartApproved, ActionRequestResubmit, model.SessionPending},
		{model.SessionEndSubmitted, ActionApprove, model.SessionApproved},
		{model.SessionEndSubmitted, ActionReject, model.SessionRejected},
		{model.SessionEndSubmitted, ActionRequestResubmit, model.SessionStartApproved},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			got, err := NextStatus(tt.from, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.to, got)
		})
	}
}

func TestNextStatus_IllegalTransitions(t *testing.T) {
	tests := []struct {
		from   model.SessionStatus
		action Action
	}{
		{model.SessionPending, ActionApprove},
		{model.SessionPending, ActionApproveStart},
		{model.SessionPending, ActionSubmitEndPhoto},
		{model.SessionStartSubmitted, ActionSubmitStartPhoto},
		{model.SessionStartSubmitted, ActionSubmitEndPhoto},
		{model.SessionEndSubmitted, ActionSubmitStartPhoto},
		{model.SessionEndSubmitted, ActionApproveStart},
		// terminal states accept nothing
		{model.SessionApproved, ActionApprove},
		{model.SessionApproved, ActionReject},
		{model.SessionApproved, ActionRequestResubmit},
		{model.SessionRejected, ActionReject},
		{model.SessionRejected, ActionSubmitStartPhoto},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			_, err := NextStatus(tt.from, tt.action)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestLegalActions(t *testing.T) {
	assert.ElementsMatch(t,
		[]Action{ActionSubmitStartPhoto, ActionReject},
		LegalActions(model.SessionPending))
	assert.ElementsMatch(t,
		[]Action{ActionApprove, ActionReject, ActionRequestResubmit},
		LegalActions(model.SessionEndSubmitted))
	assert.Empty(t, LegalActions(model.SessionApproved))
	assert.Empty(t, LegalActions(model.SessionRejected))
}

func TestStateMachine_Apply(t *testing.T) {
	t.Run("writes the status column alongside the action updates", func(t *testing.T) {
		slot, school := fxSlot(), fxSchool()
		sess := fxSession(slot, school)
		store := newMockSessionStore(sess)
		sm := NewStateMachine(store)

		next, err := sm.Apply(sess, ActionSubmitStartPhoto, map[string]any{"teaching_session_start_photo_path": "x.jpg"})
		require.NoError(t, err)
		assert.Equal(t, model.SessionStartSubmitted, next)
		assert.Equal(t, model.SessionStartSubmitted, sess.TeachingSessionStatus)

		updates := store.lastUpdate()
		assert.Equal(t, model.SessionStartSubmitted, updates["teaching_session_status"])
		assert.Equal(t, "x.jpg", updates["teaching_session_start_photo_path"])
	})

	t.Run("illegal action never reaches the store", func(t *testing.T) {
		slot, school := fxSlot(), fxSchool()
		sess := fxSession(slot, school)
		store := newMockSessionStore(sess)
		sm := NewStateMachine(store)

		_, err := sm.Apply(sess, ActionApprove, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Empty(t, store.updateCalls)
		assert.Equal(t, model.SessionPending, sess.TeachingSessionStatus)
	})

	t.Run("lost race surfaces as stale state", func(t *testing.T) {
		slot, school := fxSlot(), fxSchool()
		sess := fxSession(slot, school)
		store := newMockSessionStore(sess)
		store.forceStale = true
		sm := NewStateMachine(store)

		_, err := sm.Apply(sess, ActionSubmitStartPhoto, nil)
		assert.ErrorIs(t, err, ErrStaleState)
		// in-memory status is left untouched so the caller can re-read
		assert.Equal(t, model.SessionPending, sess.TeachingSessionStatus)
	})

	t.Run("second reject is rejected", func(t *testing.T) {
		slot, school := fxSlot(), fxSchool()
		sess := fxSession(slot, school)
		store := newMockSessionStore(sess)
		sm := NewStateMachine(store)

		_, err := sm.Apply(sess, ActionReject, nil)
		require.NoError(t, err)
		require.Equal(t, model.SessionRejected, sess.TeachingSessionStatus)

		_, err = sm.Apply(sess, ActionReject, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Len(t, store.updateCalls, 1)
	})
}
