package service

import (
	"math"
	"time"

	"gorm.io/gorm"

	"intikhab_backend/internals/features/guarantees/model"
)

/* ===================== Personal statistics ===================== */

type GroupCount struct {
	GroupID *uint  `json:"groupId"`
	Name    string `json:"name"`
	Count   int64  `json:"count"`
}

type CommitteeCount struct {
	CommitteeCode string `json:"committeeCode"`
	CommitteeName string `json:"committeeName"`
	Count         int64  `json:"count"`
}

type SectionCount struct {
	Section string `json:"section"`
	Count   int64  `json:"count"`
}

type PersonalStatistics struct {
	Total                    int64                  `json:"total"`
	Pending                  int64                  `json:"pending"`
	Guaranteed               int64                  `json:"guaranteed"`
	Confirmed                int64                  `json:"confirmed"`
	PendingConfirmation      int64                  `json:"pendingConfirmation"`
	NotAvailableConfirmation int64                  `json:"notAvailableConfirmation"`
	ConfirmationRate         float64                `json:"confirmationRate"`
	ByGroup                  []GroupCount           `json:"byGroup"`
	ByCommittee              []CommitteeCount       `json:"byCommittee"`
	Recent                   []model.GuaranteeModel `json:"recent"`
	TopSections              []SectionCount         `json:"topSections"`
}

// ComputePersonalStatistics aggregates one user's guarantees.
// Status tallies come from a single grouped query.
func ComputePersonalStatistics(db *gorm.DB, userID uint) (*PersonalStatistics, error) {
	stats := &PersonalStatistics{
		ByGroup:     []GroupCount{},
		ByCommittee: []CommitteeCount{},
		Recent:      []model.GuaranteeModel{},
		TopSections: []SectionCount{},
	}

	type tallyRow struct {
		GuaranteeStatus    string
		ConfirmationStatus string
		Count              int64
	}
	var tally []tallyRow
	if err := db.Model(&model.GuaranteeModel{}).
		Select("guarantee_status, confirmation_status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("guarantee_status, confirmation_status").
		Scan(&tally).Error; err != nil {
		return nil, err
	}
	for _, row := range tally {
		stats.Total += row.Count
		switch row.GuaranteeStatus {
		case model.GuaranteeStatusPending:
			stats.Pending += row.Count
		case model.GuaranteeStatusGuaranteed:
			stats.Guaranteed += row.Count
		}
		switch row.ConfirmationStatus {
		case model.ConfirmationConfirmed:
			stats.Confirmed += row.Count
		case model.ConfirmationPending:
			stats.PendingConfirmation += row.Count
		case model.ConfirmationNotAvailable:
			stats.NotAvailableConfirmation += row.Count
		}
	}
	if stats.Total > 0 {
		stats.ConfirmationRate = math.Round(float64(stats.Confirmed)/float64(stats.Total)*100*100) / 100
	}

	if err := db.Table("guarantees").
		Select("guarantees.group_id, COALESCE(guarantee_groups.name, 'Ungrouped') as name, COUNT(*) as count").
		Joins("LEFT JOIN guarantee_groups ON guarantee_groups.id = guarantees.group_id").
		Where("guarantees.user_id = ? AND guarantees.deleted_at IS NULL", userID).
		Group("guarantees.group_id, guarantee_groups.name").
		Order("count DESC").
		Scan(&stats.ByGroup).Error; err != nil {
		return nil, err
	}

	if err := db.Table("guarantees").
		Select("COALESCE(committees.code, '-') as committee_code, COALESCE(committees.name, 'Unassigned') as committee_name, COUNT(*) as count").
		Joins("JOIN electors ON electors.koc_id = guarantees.elector_koc_id").
		Joins("LEFT JOIN committees ON committees.id = electors.committee_id").
		Where("guarantees.user_id = ? AND guarantees.deleted_at IS NULL", userID).
		Group("committees.code, committees.name").
		Order("count DESC").
		Scan(&stats.ByCommittee).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.GuaranteeModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(5).
		Find(&stats.Recent).Error; err != nil {
		return nil, err
	}

	if err := db.Table("guarantees").
		Select("COALESCE(NULLIF(electors.section, ''), 'Unspecified') as section, COUNT(*) as count").
		Joins("JOIN electors ON electors.koc_id = guarantees.elector_koc_id").
		Where("guarantees.user_id = ? AND guarantees.deleted_at IS NULL", userID).
		Group("electors.section").
		Order("count DESC").
		Limit(5).
		Scan(&stats.TopSections).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

/* ===================== Team statistics ===================== */

type MemberStatistics struct {
	UserID           uint    `json:"userId"`
	UserName         string  `json:"userName"`
	Total            int64   `json:"total"`
	Pending          int64   `json:"pending"`
	Guaranteed       int64   `json:"guaranteed"`
	Confirmed        int64   `json:"confirmed"`
	ConfirmationRate float64 `json:"confirmationRate"`
}

type TeamActivity struct {
	GuaranteeID     uint      `json:"guaranteeId"`
	UserID          uint      `json:"userId"`
	UserName        string    `json:"userName"`
	ElectorKocID    string    `json:"electorKocId"`
	GuaranteeStatus string    `json:"guaranteeStatus"`
	CreatedAt       time.Time `json:"createdAt"`
}

type TeamStatistics struct {
	Members        []MemberStatistics `json:"members"`
	Total          int64              `json:"total"`
	Guaranteed     int64              `json:"guaranteed"`
	Confirmed      int64              `json:"confirmed"`
	RecentActivity []TeamActivity     `json:"recentActivity"`
}

// ComputeTeamStatistics aggregates guarantees across a supervisor's team.
// memberIDs includes the supervisor and every supervised principal.
func ComputeTeamStatistics(db *gorm.DB, memberIDs []uint) (*TeamStatistics, error) {
	stats := &TeamStatistics{
		Members:        []MemberStatistics{},
		RecentActivity: []TeamActivity{},
	}
	if len(memberIDs) == 0 {
		return stats, nil
	}

	type memberRow struct {
		UserID             uint
		UserName           string
		GuaranteeStatus    string
		ConfirmationStatus string
		Count              int64
	}
	var rows []memberRow
	if err := db.Table("guarantees").
		Select("guarantees.user_id, users.user_name, guarantees.guarantee_status, guarantees.confirmation_status, COUNT(*) as count").
		Joins("JOIN users ON users.id = guarantees.user_id").
		Where("guarantees.user_id IN ? AND guarantees.deleted_at IS NULL", memberIDs).
		Group("guarantees.user_id, users.user_name, guarantees.guarantee_status, guarantees.confirmation_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byMember := map[uint]*MemberStatistics{}
	order := []uint{}
	for _, row := range rows {
		m, ok := byMember[row.UserID]
		if !ok {
			m = &MemberStatistics{UserID: row.UserID, UserName: row.UserName}
			byMember[row.UserID] = m
			order = append(order, row.UserID)
		}
		m.Total += row.Count
		stats.Total += row.Count
		switch row.GuaranteeStatus {
		case model.GuaranteeStatusPending:
			m.Pending += row.Count
		case model.GuaranteeStatusGuaranteed:
			m.Guaranteed += row.Count
			stats.Guaranteed += row.Count
		}
		if row.ConfirmationStatus == model.ConfirmationConfirmed {
			m.Confirmed += row.Count
			stats.Confirmed += row.Count
		}
	}
	for _, id := range order {
		m := byMember[id]
		if m.Total > 0 {
			m.ConfirmationRate = math.Round(float64(m.Confirmed)/float64(m.Total)*100*100) / 100
		}
		stats.Members = append(stats.Members, *m)
	}

	if err := db.Table("guarantees").
		Select("guarantees.id as guarantee_id, guarantees.user_id, users.user_name, guarantees.elector_koc_id, guarantees.guarantee_status, guarantees.created_at").
		Joins("JOIN users ON users.id = guarantees.user_id").
		Where("guarantees.user_id IN ? AND guarantees.deleted_at IS NULL", memberIDs).
		Order("guarantees.created_at DESC").
		Limit(10).
		Scan(&stats.RecentActivity).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
