// file: internals/helpers/audit/audit_logger.go
package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =======================================================
   ActivityLogModel — map to activity_logs
   ======================================================= */

type ActivityLogModel struct {
	ActivityLogID uuid.UUID `json:"activity_log_id" gorm:"type:uuid;primaryKey;column:activity_log_id;default:gen_random_uuid()"`

	ActivityLogActorID     uuid.UUID      `json:"activity_log_actor_id"     gorm:"type:uuid;not null;column:activity_log_actor_id"`
	ActivityLogActionType  string         `json:"activity_log_action_type"  gorm:"type:varchar(64);not null;column:activity_log_action_type"`
	ActivityLogTargetTable string         `json:"activity_log_target_table" gorm:"type:varchar(64);not null;column:activity_log_target_table"`
	ActivityLogTargetID    uuid.UUID      `json:"activity_log_target_id"    gorm:"type:uuid;not null;column:activity_log_target_id"`
	ActivityLogDetails     datatypes.JSON `json:"activity_log_details,omitempty" gorm:"type:jsonb;column:activity_log_details"`

	ActivityLogCreatedAt time.Time `json:"activity_log_created_at" gorm:"column:activity_log_created_at;not null;autoCreateTime"`
}

func (ActivityLogModel) TableName() string { return "activity_logs" }

/* =======================================================
   Logger — fire-and-forget audit hook
   ======================================================= */

type Logger struct {
	DB *gorm.DB
}

func NewLogger(db *gorm.DB) *Logger { return &Logger{DB: db} }

// LogAction records an admin/automatic action after a committed transition.
// Fire-and-forget: a failed audit write is logged and swallowed, it never
// rolls back or fails the action that triggered it.
func (l *Logger) LogAction(actorID uuid.UUID, actionType, targetTable string, targetID uuid.UUID, details map[string]any) {
	row := ActivityLogModel{
		ActivityLogActorID:     actorID,
		ActivityLogActionType:  actionType,
		ActivityLogTargetTable: targetTable,
		ActivityLogTargetID:    targetID,
	}
	if len(details) > 0 {
		if b, err := json.Marshal(details); err == nil {
			row.ActivityLogDetails = datatypes.JSON(b)
		}
	}
	if err := l.DB.Create(&row).Error; err != nil {
		log.Printf("[WARN] audit log write failed: action=%s target=%s/%s err=%v",
			actionType, targetTable, targetID, err)
	}
}
