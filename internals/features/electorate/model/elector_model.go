package model

import (
	"strings"
	"time"

	"gorm.io/gorm"

	helper "intikhab_backend/internals/helpers"
)

// ElectorModel is a registered voter, keyed by the stable KOC ID and assigned
// to exactly one committee.
type ElectorModel struct {
	KocID string `gorm:"primaryKey;size:20;column:koc_id" json:"kocId"`

	NameFirst  string `gorm:"size:100;not null;column:name_first" json:"nameFirst"`
	NameSecond string `gorm:"size:100;column:name_second" json:"nameSecond"`
	NameThird  string `gorm:"size:100;column:name_third" json:"nameThird"`
	NameFourth string `gorm:"size:100;column:name_fourth" json:"nameFourth"`
	NameFifth  string `gorm:"size:100;column:name_fifth" json:"nameFifth"`
	NameSixth  string `gorm:"size:100;column:name_sixth" json:"nameSixth"`
	SubFamily  string `gorm:"size:100;column:sub_family" json:"subFamily"`
	FamilyName string `gorm:"size:100;not null;column:family_name" json:"familyName"`

	Designation string `gorm:"size:100" json:"designation"`
	Section     string `gorm:"size:100" json:"section"`
	Mobile      string `gorm:"size:20" json:"mobile"`
	Area        string `gorm:"size:100" json:"area"`
	Department  string `gorm:"size:100" json:"department"`
	Team        string `gorm:"size:100" json:"team"`

	CommitteeID *uint  `gorm:"index;column:committee_id" json:"committeeId,omitempty"`
	Gender      string `gorm:"size:10" json:"gender"`

	IsActive   bool  `gorm:"not null;default:true;column:is_active" json:"isActive"`
	IsApproved bool  `gorm:"not null;default:true;column:is_approved" json:"isApproved"`
	CreatedBy  *uint `gorm:"column:created_by" json:"createdBy,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ElectorModel) TableName() string { return "electors" }

// FullName joins the six given-name parts.
func (e *ElectorModel) FullName() string {
	parts := []string{e.NameFirst, e.NameSecond, e.NameThird, e.NameFourth, e.NameFifth, e.NameSixth}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// ApplyNameParts fills the name columns from a parsed full name.
func (e *ElectorModel) ApplyNameParts(p helper.NameParts) {
	e.NameFirst = p.First
	e.NameSecond = p.Second
	e.NameThird = p.Third
	e.NameFourth = p.Fourth
	e.NameFifth = p.Fifth
	e.NameSixth = p.Sixth
	e.SubFamily = p.SubFamily
	e.FamilyName = p.Family
}

// NameParts extracts the stored name columns back into the parser struct.
func (e *ElectorModel) NameParts() helper.NameParts {
	return helper.NameParts{
		First:     e.NameFirst,
		Second:    e.NameSecond,
		Third:     e.NameThird,
		Fourth:    e.NameFourth,
		Fifth:     e.NameFifth,
		Sixth:     e.NameSixth,
		SubFamily: e.SubFamily,
		Family:    e.FamilyName,
	}
}
