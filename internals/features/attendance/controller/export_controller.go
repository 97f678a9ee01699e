package controller

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/phpdave11/gofpdf"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"intikhab_backend/internals/configs"
	"intikhab_backend/internals/features/attendance/model"
	electionmodel "intikhab_backend/internals/features/elections/model"
	electoratemodel "intikhab_backend/internals/features/electorate/model"
	helper "intikhab_backend/internals/helpers"
)

const exportChunkSize = 1000

var attendanceCSVHeader = []string{
	"KOC ID", "Full Name", "First Name", "Family Name",
	"Committee Code", "Committee Name", "Attended At",
	"Marked By", "Notes", "IP Address", "User Agent",
}

type exportRow struct {
	row     model.AttendanceModel
	elector *electoratemodel.ElectorModel
}

// GET /api/attendees/export/csv
func (ctrl *AttendanceController) ExportCSV(c *fiber.Ctx) error {
	committees, names, err := ctrl.exportLookups()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to prepare export")
	}

	filter := ctrl.exportFilter(c)
	filename := fmt.Sprintf("attendance-%s.csv", time.Now().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	db := ctrl.DB
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		_, _ = w.WriteString("\xEF\xBB\xBF")
		cw := csv.NewWriter(w)
		_ = cw.Write(attendanceCSVHeader)

		var rows []model.AttendanceModel
		_ = filter(db).Order("attended_at").FindInBatches(&rows, exportChunkSize, func(tx *gorm.DB, _ int) error {
			electorByKoc := loadElectors(db, rows)
			for _, r := range rows {
				_ = cw.Write(csvFields(r, electorByKoc[r.ElectorKocID], committees, names))
			}
			cw.Flush()
			return w.Flush()
		})
		cw.Flush()
		_ = w.Flush()
	}))
	return nil
}

// GET /api/attendees/export/pdf
func (ctrl *AttendanceController) ExportPDF(c *fiber.Ctx) error {
	if configs.GetBool("EXPORT_PDF_DISABLED", false) {
		return helper.Error(c, fiber.StatusServiceUnavailable, "PDF export is disabled")
	}

	committees, names, err := ctrl.exportLookups()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to prepare export")
	}

	var rows []model.AttendanceModel
	if err := ctrl.exportFilter(c)(ctrl.DB).
		Order("attended_at").
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load attendance")
	}
	electorByKoc := loadElectors(ctrl.DB, rows)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 12)
	pdf.AddPage()
	pdf.Cell(0, 10, fmt.Sprintf("Attendance Report - %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(12)

	widths := []float64{22, 60, 24, 24, 34, 38, 40, 35}
	headers := []string{"KOC ID", "Full Name", "Committee", "Status", "Attended At", "Marked By", "Notes", "IP"}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, r := range rows {
		fullName := ""
		if e := electorByKoc[r.ElectorKocID]; e != nil {
			fullName = e.FullName()
		}
		notes := ""
		if r.Notes != nil {
			notes = *r.Notes
		}
		ip, _ := deviceFields(r.DeviceInfo)
		cells := []string{
			r.ElectorKocID,
			fullName,
			committees[r.CommitteeID].Code,
			r.Status,
			r.AttendedAt.Format("2006-01-02 15:04:05"),
			names[r.MarkedBy],
			truncate(notes, 40),
			ip,
		}
		for i, v := range cells {
			pdf.CellFormat(widths[i], 7, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to render PDF")
	}

	filename := fmt.Sprintf("attendance-%s.pdf", time.Now().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

/* ===================== Export plumbing ===================== */

// exportFilter narrows the export by optional committee and status.
func (ctrl *AttendanceController) exportFilter(c *fiber.Ctx) func(*gorm.DB) *gorm.DB {
	committeeID := c.QueryInt("committee_id")
	status := c.Query("status")
	return func(db *gorm.DB) *gorm.DB {
		q := db.Model(&model.AttendanceModel{})
		if committeeID > 0 {
			q = q.Where("committee_id = ?", committeeID)
		}
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q
	}
}

func (ctrl *AttendanceController) exportLookups() (map[uint]electionmodel.CommitteeModel, map[uint]string, error) {
	var committeeRows []electionmodel.CommitteeModel
	if err := ctrl.DB.Find(&committeeRows).Error; err != nil {
		return nil, nil, err
	}
	committees := make(map[uint]electionmodel.CommitteeModel, len(committeeRows))
	for _, cm := range committeeRows {
		committees[cm.ID] = cm
	}

	type userRow struct {
		ID       uint
		UserName string
	}
	var users []userRow
	if err := ctrl.DB.Table("users").Select("id, user_name").Scan(&users).Error; err != nil {
		return nil, nil, err
	}
	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.UserName
	}
	return committees, names, nil
}

func loadElectors(db *gorm.DB, rows []model.AttendanceModel) map[string]*electoratemodel.ElectorModel {
	out := map[string]*electoratemodel.ElectorModel{}
	if len(rows) == 0 {
		return out
	}
	kocIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		kocIDs = append(kocIDs, r.ElectorKocID)
	}
	var electors []electoratemodel.ElectorModel
	db.Where("koc_id IN ?", kocIDs).Find(&electors)
	for i := range electors {
		out[electors[i].KocID] = &electors[i]
	}
	return out
}

func csvFields(r model.AttendanceModel, elector *electoratemodel.ElectorModel, committees map[uint]electionmodel.CommitteeModel, names map[uint]string) []string {
	fullName, first, family := "", "", ""
	if elector != nil {
		fullName = elector.FullName()
		first = elector.NameFirst
		family = elector.FamilyName
	}
	notes := ""
	if r.Notes != nil {
		notes = *r.Notes
	}
	ip, ua := deviceFields(r.DeviceInfo)
	cm := committees[r.CommitteeID]
	return []string{
		r.ElectorKocID,
		fullName,
		first,
		family,
		cm.Code,
		cm.Name,
		r.AttendedAt.Format("2006-01-02 15:04:05"),
		names[r.MarkedBy],
		notes,
		ip,
		ua,
	}
}

func deviceFields(raw []byte) (ip, userAgent string) {
	if len(raw) == 0 {
		return "", ""
	}
	var info map[string]string
	if err := json.Unmarshal(raw, &info); err != nil {
		return "", ""
	}
	return info["ip"], info["user_agent"]
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "."
}
