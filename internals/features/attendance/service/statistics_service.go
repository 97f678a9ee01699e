package service

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"intikhab_backend/internals/configs"
	"intikhab_backend/internals/features/attendance/model"
)

// GetStatistics serves the cached rollup for a committee, recomputing
// when the row is missing or older than the cache TTL.
func GetStatistics(db *gorm.DB, committeeID uint, force bool) (*model.AttendanceStatisticsModel, error) {
	if !force {
		var stats model.AttendanceStatisticsModel
		err := db.First(&stats, "committee_id = ?", committeeID).Error
		if err == nil && time.Since(stats.LastUpdated) < configs.AttendanceStatsCacheTTL() {
			return &stats, nil
		}
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}
	return Recompute(db, committeeID)
}

// Recompute rebuilds the rollup inside one transaction. The stats row
// is locked so concurrent stale reads do not double-compute.
func Recompute(db *gorm.DB, committeeID uint) (*model.AttendanceStatisticsModel, error) {
	var out *model.AttendanceStatisticsModel
	err := db.Transaction(func(tx *gorm.DB) error {
		var stats model.AttendanceStatisticsModel
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&stats, "committee_id = ?", committeeID).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			stats = model.AttendanceStatisticsModel{CommitteeID: committeeID}
		}

		var totalElectors, totalAttended int64
		if err := tx.Table("electors").
			Where("committee_id = ? AND is_active = true", committeeID).
			Count(&totalElectors).Error; err != nil {
			return err
		}
		if err := tx.Table("attendances").
			Where("committee_id = ? AND status = ?", committeeID, model.AttendanceAttended).
			Count(&totalAttended).Error; err != nil {
			return err
		}

		// Hour buckets are computed here rather than in SQL so the
		// query shape stays portable.
		var times []time.Time
		if err := tx.Table("attendances").
			Where("committee_id = ? AND status = ?", committeeID, model.AttendanceAttended).
			Pluck("attended_at", &times).Error; err != nil {
			return err
		}
		hourly := map[string]int{}
		for _, t := range times {
			hourly[fmt.Sprintf("%02d:00", t.Hour())]++
		}
		breakdown, err := json.Marshal(hourly)
		if err != nil {
			return err
		}

		stats.TotalElectors = totalElectors
		stats.TotalAttended = totalAttended
		stats.AttendancePercentage = 0
		if totalElectors > 0 {
			stats.AttendancePercentage = math.Round(float64(totalAttended)/float64(totalElectors)*100*100) / 100
		}
		stats.HourlyBreakdown = datatypes.JSON(breakdown)
		stats.LastUpdated = time.Now()

		if err := tx.Save(&stats).Error; err != nil {
			return err
		}
		out = &stats
		return nil
	})
	return out, err
}

// Invalidate marks a committee's rollup as stale so the next read
// recomputes it.
func Invalidate(db *gorm.DB, committeeID uint) {
	db.Model(&model.AttendanceStatisticsModel{}).
		Where("committee_id = ?", committeeID).
		Update("last_updated", time.Time{})
}
