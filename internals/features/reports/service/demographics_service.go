package service

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

/* ===================== Demographics ===================== */

type DemographicBucket struct {
	Label                string  `json:"label"`
	Total                int64   `json:"total"`
	Male                 int64   `json:"male"`
	Female               int64   `json:"female"`
	Attended             int64   `json:"attended"`
	AttendancePercentage float64 `json:"attendancePercentage"`
}

type Demographics struct {
	ByGender     []DemographicBucket `json:"byGender"`
	ByArea       []DemographicBucket `json:"byArea"`
	ByDepartment []DemographicBucket `json:"byDepartment"`
	ByTeam       []DemographicBucket `json:"byTeam"`
	ByFamily     []DemographicBucket `json:"byFamily"`
}

// ComputeDemographics groups active electors along each dimension with
// a male/female split and the attended share.
func ComputeDemographics(db *gorm.DB) (*Demographics, error) {
	out := &Demographics{}
	dims := []struct {
		column string
		target *[]DemographicBucket
	}{
		{"gender", &out.ByGender},
		{"area", &out.ByArea},
		{"department", &out.ByDepartment},
		{"team", &out.ByTeam},
		{"family_name", &out.ByFamily},
	}
	for _, dim := range dims {
		buckets, err := demographicsBy(db, dim.column)
		if err != nil {
			return nil, err
		}
		*dim.target = buckets
	}
	return out, nil
}

func demographicsBy(db *gorm.DB, column string) ([]DemographicBucket, error) {
	type row struct {
		Label    *string
		Total    int64
		Male     int64
		Female   int64
		Attended int64
	}
	var rows []row
	sel := fmt.Sprintf(`electors.%s as label,
		COUNT(*) as total,
		SUM(CASE WHEN electors.gender = 'MALE' THEN 1 ELSE 0 END) as male,
		SUM(CASE WHEN electors.gender = 'FEMALE' THEN 1 ELSE 0 END) as female,
		SUM(CASE WHEN attendances.id IS NOT NULL THEN 1 ELSE 0 END) as attended`, column)
	if err := db.Table("electors").
		Select(sel).
		Joins("LEFT JOIN attendances ON attendances.elector_koc_id = electors.koc_id AND attendances.status = 'ATTENDED'").
		Where("electors.is_active = true").
		Group(fmt.Sprintf("electors.%s", column)).
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]DemographicBucket, 0, len(rows))
	for _, r := range rows {
		b := DemographicBucket{
			Label:    bucketLabel(r.Label),
			Total:    r.Total,
			Male:     r.Male,
			Female:   r.Female,
			Attended: r.Attended,
		}
		if b.Total > 0 {
			b.AttendancePercentage = round2(float64(b.Attended) / float64(b.Total) * 100)
		}
		out = append(out, b)
	}
	return out, nil
}

/* ===================== Hourly attendance ===================== */

type HourlyBucket struct {
	Hour       string `json:"hour"`
	Attendance int64  `json:"attendance"`
	Votes      int64  `json:"votes"`
	Target     int64  `json:"target"`
}

// HourlyAttendance covers voting-day hours 08:00 through 17:00 for one
// date. Target is one tenth of registered electors per hour; votes are
// the counting entries recorded in that hour.
func HourlyAttendance(db *gorm.DB, date time.Time) ([]HourlyBucket, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var attendedTimes []time.Time
	if err := db.Table("attendances").
		Where("status = 'ATTENDED' AND attended_at >= ? AND attended_at < ?", dayStart, dayEnd).
		Pluck("attended_at", &attendedTimes).Error; err != nil {
		return nil, err
	}
	var voteTimes []time.Time
	if err := db.Table("vote_counts").
		Where("updated_at >= ? AND updated_at < ?", dayStart, dayEnd).
		Pluck("updated_at", &voteTimes).Error; err != nil {
		return nil, err
	}

	var registered int64
	if err := db.Table("electors").
		Where("is_active = true").
		Count(&registered).Error; err != nil {
		return nil, err
	}
	target := registered / 10

	attendanceByHour := map[int]int64{}
	for _, t := range attendedTimes {
		attendanceByHour[t.Hour()]++
	}
	votesByHour := map[int]int64{}
	for _, t := range voteTimes {
		votesByHour[t.Hour()]++
	}

	out := make([]HourlyBucket, 0, 10)
	for hour := 8; hour <= 17; hour++ {
		out = append(out, HourlyBucket{
			Hour:       fmt.Sprintf("%02d:00", hour),
			Attendance: attendanceByHour[hour],
			Votes:      votesByHour[hour],
			Target:     target,
		})
	}
	return out, nil
}
