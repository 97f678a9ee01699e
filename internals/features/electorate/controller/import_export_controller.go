package controller

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"intikhab_backend/internals/constants"
	committeeModel "intikhab_backend/internals/features/elections/model"
	"intikhab_backend/internals/features/electorate/model"
	helper "intikhab_backend/internals/helpers"
)

const importChunkSize = 1000

// csvBOM keeps exported files spreadsheet-friendly.
const csvBOM = "\xEF\xBB\xBF"

type rowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

/* ===================== IMPORT ===================== */
// POST /api/electors/import_csv/ (admin only, multipart)
// Header needs at least a KOC column and a name column. ?mode=update also
// updates existing rows; default is create-only.
func (ctrl *ElectorController) ImportCSV(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("elector import"))
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "CSV file is required (field name: file)")
	}
	updateExisting := c.Query("mode") == "update"

	src, err := fileHeader.Open()
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Failed to open uploaded file")
	}
	defer src.Close()

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Failed to read CSV header")
	}
	cols := indexHeader(header)
	if _, ok := cols["koc"]; !ok {
		return helper.Error(c, fiber.StatusBadRequest, "CSV header must contain a KOC column")
	}
	nameCol, ok := cols["name"]
	if !ok {
		return helper.Error(c, fiber.StatusBadRequest, "CSV header must contain a name column")
	}

	// Committee codes looked up once per file.
	committeeByCode := map[string]uint{}
	var committees []committeeModel.CommitteeModel
	if err := ctrl.DB.Find(&committees).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load committees")
	}
	for _, cm := range committees {
		committeeByCode[cm.Code] = cm.ID
	}

	created, updated := 0, 0
	rowErrors := []rowError{}
	chunk := make([]model.ElectorModel, 0, importChunkSize)
	rowNum := 1

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
			for i := range chunk {
				e := &chunk[i]
				var existing model.ElectorModel
				findErr := tx.First(&existing, "koc_id = ?", e.KocID).Error
				switch {
				case findErr == nil && updateExisting:
					if err := tx.Model(&existing).Updates(map[string]interface{}{
						"name_first": e.NameFirst, "name_second": e.NameSecond,
						"name_third": e.NameThird, "name_fourth": e.NameFourth,
						"name_fifth": e.NameFifth, "name_sixth": e.NameSixth,
						"sub_family": e.SubFamily, "family_name": e.FamilyName,
						"designation": e.Designation, "section": e.Section,
						"mobile": e.Mobile, "area": e.Area,
						"department": e.Department, "team": e.Team,
						"committee_id": e.CommitteeID,
					}).Error; err != nil {
						return err
					}
					updated++
				case findErr == nil:
					// create-only mode: skip silently
				default:
					if err := tx.Create(e).Error; err != nil {
						return err
					}
					created++
				}
			}
			return nil
		})
		chunk = chunk[:0]
		return err
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			rowErrors = append(rowErrors, rowError{Row: rowNum, Message: "unreadable row"})
			continue
		}

		get := func(key string) string {
			if idx, ok := cols[key]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}

		kocID := get("koc")
		fullName := ""
		if nameCol < len(record) {
			fullName = strings.TrimSpace(record[nameCol])
		}
		if kocID == "" {
			rowErrors = append(rowErrors, rowError{Row: rowNum, Message: "missing KOC ID"})
			continue
		}

		var committeeID *uint
		if code := get("code"); code != "" {
			if id, ok := committeeByCode[code]; ok {
				committeeID = &id
			} else {
				rowErrors = append(rowErrors, rowError{Row: rowNum, Message: "unknown committee code " + code})
				continue
			}
		} else {
			rowErrors = append(rowErrors, rowError{Row: rowNum, Message: "missing committee code"})
			continue
		}

		e := model.ElectorModel{
			KocID:       kocID,
			Designation: get("desgnation"),
			Section:     get("section"),
			Mobile:      get("mobile"),
			Area:        get("area"),
			Department:  get("department"),
			Team:        get("team"),
			CommitteeID: committeeID,
			IsActive:    true,
			IsApproved:  true,
			CreatedBy:   &userID,
		}
		e.ApplyNameParts(helper.ParseFullName(fullName))

		chunk = append(chunk, e)
		if len(chunk) >= importChunkSize {
			if err := flush(); err != nil {
				return helper.Error(c, fiber.StatusInternalServerError, "Import failed: "+err.Error())
			}
		}
	}
	if err := flush(); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Import failed: "+err.Error())
	}

	return helper.JsonOK(c, "Import finished", fiber.Map{
		"created": created,
		"updated": updated,
		"errors":  rowErrors,
	})
}

func indexHeader(header []string) map[string]int {
	cols := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.TrimSuffix(key, ".")
		switch key {
		case "koc", "koc id", "koc_id":
			cols["koc"] = i
		case "name", "full name", "full_name":
			cols["name"] = i
		case "desgnation", "designation":
			cols["desgnation"] = i
		case "section", "ext", "mobile", "area", "department", "team", "code":
			cols[key] = i
		}
	}
	return cols
}

/* ===================== EXPORT ===================== */
// GET /api/electors/export/
// Streamed CSV, UTF-8 with BOM.
func (ctrl *ElectorController) ExportCSV(c *fiber.Ctx) error {
	db := ctrl.DB
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="electors-%s.csv"`, time.Now().Format("2006-01-02")))

	codeByID := map[uint]string{}
	var committees []committeeModel.CommitteeModel
	if err := db.Find(&committees).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load committees")
	}
	for _, cm := range committees {
		codeByID[cm.ID] = cm.Code
	}

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		_, _ = w.WriteString(csvBOM)
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{
			"KOC ID", "Full Name", "First Name", "Family Name",
			"Section", "Mobile", "Area", "Department", "Team", "Committee",
		})

		var batch []model.ElectorModel
		_ = db.Where("is_active = true").
			Order("koc_id").
			FindInBatches(&batch, importChunkSize, func(tx *gorm.DB, _ int) error {
				for _, e := range batch {
					committee := ""
					if e.CommitteeID != nil {
						committee = codeByID[*e.CommitteeID]
					}
					_ = cw.Write([]string{
						e.KocID, e.FullName(), e.NameFirst, e.FamilyName,
						e.Section, e.Mobile, e.Area, e.Department, e.Team, committee,
					})
				}
				cw.Flush()
				return w.Flush()
			}).Error
		cw.Flush()
		_ = w.Flush()
	}))
	return nil
}
