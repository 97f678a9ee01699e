package service

import (
	"fmt"
	"sort"

	"gorm.io/gorm"
)

const (
	distributionMinLimit     = 3
	distributionMaxLimit     = 25
	distributionDefaultLimit = 12
	distributionMaxSeries    = 8
)

const unspecified = "Unspecified"

// guaranteeDims maps a dimension name to its SQL expression over the
// joined guarantee row.
var guaranteeDims = map[string]string{
	"family":       "electors.family_name",
	"area":         "electors.area",
	"team":         "electors.team",
	"department":   "electors.department",
	"gender":       "electors.gender",
	"collector":    "users.user_name",
	"group":        "guarantee_groups.name",
	"status":       "guarantees.guarantee_status",
	"confirmation": "guarantees.confirmation_status",
	"committee":    "committees.code",
}

var electorDims = map[string]string{
	"family":     "family_name",
	"gender":     "gender",
	"department": "department",
	"team":       "team",
}

func ValidGuaranteeDim(dim string) bool {
	_, ok := guaranteeDims[dim]
	return ok
}

func ValidElectorDim(dim string) bool {
	_, ok := electorDims[dim]
	return ok
}

/* ===================== Pivot output ===================== */

type Pivot struct {
	XDim       string           `json:"xDim"`
	YDim       string           `json:"yDim"`
	Categories []string         `json:"categories"`
	Series     []PivotSeries    `json:"series"`
	Totals     map[string]int64 `json:"totals"`
}

type PivotSeries struct {
	Name   string  `json:"name"`
	Values []int64 `json:"values"`
}

// ClampLimit normalizes the x-axis category cap.
func ClampLimit(limit int) int {
	if limit == 0 {
		return distributionDefaultLimit
	}
	if limit < distributionMinLimit {
		return distributionMinLimit
	}
	if limit > distributionMaxLimit {
		return distributionMaxLimit
	}
	return limit
}

// GuaranteeDistribution builds a 2-D pivot over the guarantee rows.
// The x axis keeps the top `limit` categories, the y axis the top 8.
func GuaranteeDistribution(db *gorm.DB, xDim, yDim string, limit int) (*Pivot, error) {
	xExpr, ok := guaranteeDims[xDim]
	if !ok {
		return nil, fmt.Errorf("unknown dimension %q", xDim)
	}
	yExpr, ok := guaranteeDims[yDim]
	if !ok {
		return nil, fmt.Errorf("unknown dimension %q", yDim)
	}

	type row struct {
		X     *string
		Y     *string
		Count int64
	}
	var rows []row
	if err := db.Table("guarantees").
		Select(fmt.Sprintf("%s as x, %s as y, COUNT(*) as count", xExpr, yExpr)).
		Joins("JOIN electors ON electors.koc_id = guarantees.elector_koc_id").
		Joins("JOIN users ON users.id = guarantees.user_id").
		Joins("LEFT JOIN guarantee_groups ON guarantee_groups.id = guarantees.group_id").
		Joins("LEFT JOIN committees ON committees.id = electors.committee_id").
		Where("guarantees.deleted_at IS NULL").
		Group(fmt.Sprintf("%s, %s", xExpr, yExpr)).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	cells := make([][3]interface{}, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, [3]interface{}{bucketLabel(r.X), bucketLabel(r.Y), r.Count})
	}
	return buildPivot(xDim, yDim, cells, ClampLimit(limit)), nil
}

// ElectorDistribution builds a 1-D or 2-D pivot over electors.
// An empty yDim yields a single "count" series.
func ElectorDistribution(db *gorm.DB, xDim, yDim string, limit int) (*Pivot, error) {
	xExpr, ok := electorDims[xDim]
	if !ok {
		return nil, fmt.Errorf("unknown dimension %q", xDim)
	}

	sel := fmt.Sprintf("%s as x, COUNT(*) as count", xExpr)
	group := xExpr
	if yDim != "" {
		yExpr, ok := electorDims[yDim]
		if !ok {
			return nil, fmt.Errorf("unknown dimension %q", yDim)
		}
		sel = fmt.Sprintf("%s as x, %s as y, COUNT(*) as count", xExpr, yExpr)
		group = fmt.Sprintf("%s, %s", xExpr, yExpr)
	}

	type row struct {
		X     *string
		Y     *string
		Count int64
	}
	var rows []row
	if err := db.Table("electors").
		Select(sel).
		Where("is_active = true").
		Group(group).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	cells := make([][3]interface{}, 0, len(rows))
	for _, r := range rows {
		y := "count"
		if yDim != "" {
			y = bucketLabel(r.Y)
		}
		cells = append(cells, [3]interface{}{bucketLabel(r.X), y, r.Count})
	}
	return buildPivot(xDim, yDim, cells, ClampLimit(limit)), nil
}

/* ===================== Pivot assembly ===================== */

func bucketLabel(s *string) string {
	if s == nil || *s == "" {
		return unspecified
	}
	return *s
}

func buildPivot(xDim, yDim string, cells [][3]interface{}, limit int) *Pivot {
	xTotals := map[string]int64{}
	yTotals := map[string]int64{}
	counts := map[[2]string]int64{}
	for _, cell := range cells {
		x := cell[0].(string)
		y := cell[1].(string)
		n := cell[2].(int64)
		xTotals[x] += n
		yTotals[y] += n
		counts[[2]string{x, y}] += n
	}

	categories := topKeys(xTotals, limit)
	seriesNames := topKeys(yTotals, distributionMaxSeries)

	series := make([]PivotSeries, 0, len(seriesNames))
	for _, name := range seriesNames {
		values := make([]int64, len(categories))
		for i, cat := range categories {
			values[i] = counts[[2]string{cat, name}]
		}
		series = append(series, PivotSeries{Name: name, Values: values})
	}

	totals := map[string]int64{}
	for _, cat := range categories {
		totals[cat] = xTotals[cat]
	}
	return &Pivot{
		XDim:       xDim,
		YDim:       yDim,
		Categories: categories,
		Series:     series,
		Totals:     totals,
	}
}

// topKeys sorts keys by count descending, name ascending, and keeps
// the first n.
func topKeys(totals map[string]int64, n int) []string {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if totals[keys[i]] != totals[keys[j]] {
			return totals[keys[i]] > totals[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
