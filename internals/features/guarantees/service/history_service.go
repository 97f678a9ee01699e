package service

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"intikhab_backend/internals/features/guarantees/model"
)

// AppendHistory writes one audit row for a guarantee mutation.
// oldVal and newVal may be nil; they are serialized as JSON snapshots.
func AppendHistory(db *gorm.DB, guaranteeID, actorID uint, action string, oldVal, newVal interface{}, description string) error {
	row := model.GuaranteeHistoryModel{
		GuaranteeID: guaranteeID,
		ActorID:     actorID,
		Action:      action,
		Description: description,
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

// Snapshot extracts the audited fields of a guarantee for history rows.
func Snapshot(g *model.GuaranteeModel) map[string]interface{} {
	return map[string]interface{}{
		"guarantee_status":    g.GuaranteeStatus,
		"confirmation_status": g.ConfirmationStatus,
		"group_id":            g.GroupID,
		"mobile":              g.Mobile,
		"quick_note":          g.QuickNote,
	}
}
