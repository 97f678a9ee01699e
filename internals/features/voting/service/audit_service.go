package service

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"intikhab_backend/internals/features/voting/model"
)

// AppendAudit writes one audit row for a vote-count mutation.
func AppendAudit(db *gorm.DB, voteCountID, actorID uint, action string, oldVal, newVal interface{}, ip string) error {
	row := model.VoteCountAuditModel{
		VoteCountID: voteCountID,
		ActorID:     actorID,
		Action:      action,
		IPAddress:   ip,
	}
	if oldVal != nil {
		if b, err := json.Marshal(oldVal); err == nil {
			row.OldValue = datatypes.JSON(b)
		}
	}
	if newVal != nil {
		if b, err := json.Marshal(newVal); err == nil {
			row.NewValue = datatypes.JSON(b)
		}
	}
	return db.Create(&row).Error
}

// VoteCountSnapshot extracts the audited fields of a vote count.
func VoteCountSnapshot(vc *model.VoteCountModel) map[string]interface{} {
	return map[string]interface{}{
		"vote_count":  vc.VoteCount,
		"status":      vc.Status,
		"is_verified": vc.IsVerified,
	}
}
