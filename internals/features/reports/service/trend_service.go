package service

import (
	"math"
	"time"

	"gorm.io/gorm"
)

/* ===================== Guarantee trend ===================== */

type TrendBucket struct {
	Date         string `json:"date"`
	Pending      int64  `json:"pending"`
	Guaranteed   int64  `json:"guaranteed"`
	NotAvailable int64  `json:"notAvailable"`
	Total        int64  `json:"total"`
}

type UserTrend struct {
	UserID   uint          `json:"userId"`
	UserName string        `json:"userName"`
	Buckets  []TrendBucket `json:"buckets"`
}

// GuaranteeTrend buckets guarantee creation per day and user.
// days of 0 means the full history.
func GuaranteeTrend(db *gorm.DB, userIDs []uint, days int) ([]UserTrend, error) {
	type row struct {
		UserID             uint
		UserName           string
		GuaranteeStatus    string
		ConfirmationStatus string
		CreatedAt          time.Time
	}
	q := db.Table("guarantees").
		Select("guarantees.user_id, users.user_name, guarantees.guarantee_status, guarantees.confirmation_status, guarantees.created_at").
		Joins("JOIN users ON users.id = guarantees.user_id").
		Where("guarantees.deleted_at IS NULL")
	if len(userIDs) > 0 {
		q = q.Where("guarantees.user_id IN ?", userIDs)
	}
	if days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days)
		q = q.Where("guarantees.created_at >= ?", cutoff)
	}
	var rows []row
	if err := q.Order("guarantees.created_at").Scan(&rows).Error; err != nil {
		return nil, err
	}

	type bucketKey struct {
		userID uint
		date   string
	}
	buckets := map[bucketKey]*TrendBucket{}
	names := map[uint]string{}
	userOrder := []uint{}
	dateOrder := map[uint][]string{}

	for _, r := range rows {
		if _, seen := names[r.UserID]; !seen {
			names[r.UserID] = r.UserName
			userOrder = append(userOrder, r.UserID)
		}
		date := r.CreatedAt.Format("2006-01-02")
		k := bucketKey{r.UserID, date}
		b, ok := buckets[k]
		if !ok {
			b = &TrendBucket{Date: date}
			buckets[k] = b
			dateOrder[r.UserID] = append(dateOrder[r.UserID], date)
		}
		b.Total++
		switch r.GuaranteeStatus {
		case "PENDING":
			b.Pending++
		case "GUARANTEED":
			b.Guaranteed++
		}
		if r.ConfirmationStatus == "NOT_AVAILABLE" {
			b.NotAvailable++
		}
	}

	out := make([]UserTrend, 0, len(userOrder))
	for _, uid := range userOrder {
		trend := UserTrend{UserID: uid, UserName: names[uid], Buckets: []TrendBucket{}}
		for _, date := range dateOrder[uid] {
			trend.Buckets = append(trend.Buckets, *buckets[bucketKey{uid, date}])
		}
		out = append(out, trend)
	}
	return out, nil
}

/* ===================== Group performance ===================== */

type GroupPerformance struct {
	GroupID        uint    `json:"groupId"`
	GroupName      string  `json:"groupName"`
	UserID         uint    `json:"userId"`
	Total          int64   `json:"total"`
	Guaranteed     int64   `json:"guaranteed"`
	Attended       int64   `json:"attended"`
	AttendanceRate float64 `json:"attendanceRate"`
	ConversionRate float64 `json:"conversionRate"`
	Status         string  `json:"status"`
}

// ComputeGroupPerformance classifies each group by recent activity:
// active (guarantee touched within 7 days), inactive (has guarantees,
// none recent), pending (empty).
func ComputeGroupPerformance(db *gorm.DB, userIDs []uint) ([]GroupPerformance, error) {
	type groupRow struct {
		ID     uint
		Name   string
		UserID uint
	}
	q := db.Table("guarantee_groups").Select("id, name, user_id")
	if len(userIDs) > 0 {
		q = q.Where("user_id IN ?", userIDs)
	}
	var groups []groupRow
	if err := q.Order("user_id, sort_order").Scan(&groups).Error; err != nil {
		return nil, err
	}

	type statRow struct {
		GroupID    uint
		Total      int64
		Guaranteed int64
		Attended   int64
		LastTouch  *time.Time
	}
	var stats []statRow
	if err := db.Table("guarantees").
		Select(`guarantees.group_id,
			COUNT(*) as total,
			SUM(CASE WHEN guarantees.guarantee_status = 'GUARANTEED' THEN 1 ELSE 0 END) as guaranteed,
			SUM(CASE WHEN attendances.id IS NOT NULL THEN 1 ELSE 0 END) as attended,
			MAX(guarantees.updated_at) as last_touch`).
		Joins("LEFT JOIN attendances ON attendances.elector_koc_id = guarantees.elector_koc_id AND attendances.status = 'ATTENDED'").
		Where("guarantees.group_id IS NOT NULL AND guarantees.deleted_at IS NULL").
		Group("guarantees.group_id").
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	statByGroup := make(map[uint]statRow, len(stats))
	for _, s := range stats {
		statByGroup[s.GroupID] = s
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	out := make([]GroupPerformance, 0, len(groups))
	for _, g := range groups {
		perf := GroupPerformance{GroupID: g.ID, GroupName: g.Name, UserID: g.UserID, Status: "pending"}
		if s, ok := statByGroup[g.ID]; ok && s.Total > 0 {
			perf.Total = s.Total
			perf.Guaranteed = s.Guaranteed
			perf.Attended = s.Attended
			perf.AttendanceRate = round2(float64(s.Attended) / float64(s.Total) * 100)
			perf.ConversionRate = round2(float64(s.Guaranteed) / float64(s.Total) * 100)
			if s.LastTouch != nil && s.LastTouch.After(weekAgo) {
				perf.Status = "active"
			} else {
				perf.Status = "inactive"
			}
		}
		out = append(out, perf)
	}
	return out, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
