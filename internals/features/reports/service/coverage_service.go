package service

import (
	"gorm.io/gorm"
)

/* ===================== Coverage ===================== */

type CommitteeCoverage struct {
	CommitteeID        uint    `json:"committeeId"`
	CommitteeCode      string  `json:"committeeCode"`
	CommitteeName      string  `json:"committeeName"`
	TotalElectors      int64   `json:"totalElectors"`
	GuaranteedElectors int64   `json:"guaranteedElectors"`
	CoveragePercentage float64 `json:"coveragePercentage"`
}

type Coverage struct {
	TotalElectors      int64               `json:"totalElectors"`
	GuaranteedElectors int64               `json:"guaranteedElectors"`
	CoveragePercentage float64             `json:"coveragePercentage"`
	ByCommittee        []CommitteeCoverage `json:"byCommittee"`
}

// ComputeCoverage reports how much of the electorate is covered by at
// least one guarantee, overall and per committee.
func ComputeCoverage(db *gorm.DB) (*Coverage, error) {
	out := &Coverage{ByCommittee: []CommitteeCoverage{}}

	if err := db.Table("electors").
		Where("is_active = true").
		Count(&out.TotalElectors).Error; err != nil {
		return nil, err
	}
	if err := db.Table("electors").
		Where("is_active = true").
		Where("koc_id IN (?)", db.Table("guarantees").
			Select("elector_koc_id").
			Where("deleted_at IS NULL")).
		Count(&out.GuaranteedElectors).Error; err != nil {
		return nil, err
	}
	if out.TotalElectors > 0 {
		out.CoveragePercentage = round2(float64(out.GuaranteedElectors) / float64(out.TotalElectors) * 100)
	}

	type row struct {
		CommitteeID   uint
		CommitteeCode string
		CommitteeName string
		TotalElectors int64
		Guaranteed    int64
	}
	var rows []row
	if err := db.Table("committees").
		Select(`committees.id as committee_id, committees.code as committee_code, committees.name as committee_name,
			COUNT(electors.koc_id) as total_electors,
			SUM(CASE WHEN g.elector_koc_id IS NOT NULL THEN 1 ELSE 0 END) as guaranteed`).
		Joins("LEFT JOIN electors ON electors.committee_id = committees.id AND electors.is_active = true").
		Joins("LEFT JOIN (SELECT DISTINCT elector_koc_id FROM guarantees WHERE deleted_at IS NULL) g ON g.elector_koc_id = electors.koc_id").
		Where("committees.deleted_at IS NULL").
		Group("committees.id, committees.code, committees.name").
		Order("committees.code").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		cc := CommitteeCoverage{
			CommitteeID:        r.CommitteeID,
			CommitteeCode:      r.CommitteeCode,
			CommitteeName:      r.CommitteeName,
			TotalElectors:      r.TotalElectors,
			GuaranteedElectors: r.Guaranteed,
		}
		if cc.TotalElectors > 0 {
			cc.CoveragePercentage = round2(float64(cc.GuaranteedElectors) / float64(cc.TotalElectors) * 100)
		}
		out.ByCommittee = append(out.ByCommittee, cc)
	}
	return out, nil
}

/* ===================== Accuracy ===================== */

type UserAccuracy struct {
	UserID             uint    `json:"userId"`
	UserName           string  `json:"userName"`
	Guaranteed         int64   `json:"guaranteed"`
	Attended           int64   `json:"attended"`
	AccuracyPercentage float64 `json:"accuracyPercentage"`
}

type Accuracy struct {
	Guaranteed         int64          `json:"guaranteed"`
	Attended           int64          `json:"attended"`
	AccuracyPercentage float64        `json:"accuracyPercentage"`
	ByUser             []UserAccuracy `json:"byUser"`
}

// ComputeAccuracy measures how many GUARANTEED pledges turned into
// actual attendance, overall and per collector.
func ComputeAccuracy(db *gorm.DB) (*Accuracy, error) {
	out := &Accuracy{ByUser: []UserAccuracy{}}

	type row struct {
		UserID     uint
		UserName   string
		Guaranteed int64
		Attended   int64
	}
	var rows []row
	if err := db.Table("guarantees").
		Select(`guarantees.user_id, users.user_name,
			COUNT(*) as guaranteed,
			SUM(CASE WHEN attendances.id IS NOT NULL THEN 1 ELSE 0 END) as attended`).
		Joins("JOIN users ON users.id = guarantees.user_id").
		Joins("LEFT JOIN attendances ON attendances.elector_koc_id = guarantees.elector_koc_id AND attendances.status = 'ATTENDED'").
		Where("guarantees.guarantee_status = 'GUARANTEED' AND guarantees.deleted_at IS NULL").
		Group("guarantees.user_id, users.user_name").
		Order("guaranteed DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		ua := UserAccuracy{
			UserID:     r.UserID,
			UserName:   r.UserName,
			Guaranteed: r.Guaranteed,
			Attended:   r.Attended,
		}
		if ua.Guaranteed > 0 {
			ua.AccuracyPercentage = round2(float64(ua.Attended) / float64(ua.Guaranteed) * 100)
		}
		out.Guaranteed += r.Guaranteed
		out.Attended += r.Attended
		out.ByUser = append(out.ByUser, ua)
	}
	if out.Guaranteed > 0 {
		out.AccuracyPercentage = round2(float64(out.Attended) / float64(out.Guaranteed) * 100)
	}
	return out, nil
}

/* ===================== Committee performance ===================== */

type CommitteePerformance struct {
	CommitteeID          uint    `json:"committeeId"`
	CommitteeCode        string  `json:"committeeCode"`
	CommitteeName        string  `json:"committeeName"`
	TotalElectors        int64   `json:"totalElectors"`
	TotalAttended        int64   `json:"totalAttended"`
	AttendancePercentage float64 `json:"attendancePercentage"`
	GuaranteedElectors   int64   `json:"guaranteedElectors"`
	CoveragePercentage   float64 `json:"coveragePercentage"`
	VoteEntryStatus      string  `json:"voteEntryStatus"`
}

// ComputeCommitteePerformance merges attendance, coverage and counting
// status per committee.
func ComputeCommitteePerformance(db *gorm.DB) ([]CommitteePerformance, error) {
	coverage, err := ComputeCoverage(db)
	if err != nil {
		return nil, err
	}

	type attendedRow struct {
		CommitteeID uint
		Count       int64
	}
	var attendance []attendedRow
	if err := db.Table("attendances").
		Select("committee_id, COUNT(*) as count").
		Where("status = 'ATTENDED'").
		Group("committee_id").
		Scan(&attendance).Error; err != nil {
		return nil, err
	}
	attendedByCommittee := make(map[uint]int64, len(attendance))
	for _, r := range attendance {
		attendedByCommittee[r.CommitteeID] = r.Count
	}

	type entryRow struct {
		CommitteeID uint
		Status      string
	}
	var entries []entryRow
	if err := db.Table("committee_vote_entries").
		Select("committee_id, status").
		Scan(&entries).Error; err != nil {
		return nil, err
	}
	entryByCommittee := make(map[uint]string, len(entries))
	for _, r := range entries {
		entryByCommittee[r.CommitteeID] = r.Status
	}

	out := make([]CommitteePerformance, 0, len(coverage.ByCommittee))
	for _, cc := range coverage.ByCommittee {
		perf := CommitteePerformance{
			CommitteeID:        cc.CommitteeID,
			CommitteeCode:      cc.CommitteeCode,
			CommitteeName:      cc.CommitteeName,
			TotalElectors:      cc.TotalElectors,
			TotalAttended:      attendedByCommittee[cc.CommitteeID],
			GuaranteedElectors: cc.GuaranteedElectors,
			CoveragePercentage: cc.CoveragePercentage,
			VoteEntryStatus:    "NOT_STARTED",
		}
		if perf.TotalElectors > 0 {
			perf.AttendancePercentage = round2(float64(perf.TotalAttended) / float64(perf.TotalElectors) * 100)
		}
		if status, ok := entryByCommittee[cc.CommitteeID]; ok {
			perf.VoteEntryStatus = status
		}
		out = append(out, perf)
	}
	return out, nil
}
