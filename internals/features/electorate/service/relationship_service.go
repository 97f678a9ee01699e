package service

import (
	"gorm.io/gorm"

	"intikhab_backend/internals/features/electorate/dto"
	"intikhab_backend/internals/features/electorate/model"
)

const relationCap = 10

// Relationships groups the four name-derived relative lists plus the
// workplace/area matches.
type Relationships struct {
	Brothers       []dto.ElectorResponse `json:"brothers"`
	Fathers        []dto.ElectorResponse `json:"fathers"`
	Sons           []dto.ElectorResponse `json:"sons"`
	Cousins        []dto.ElectorResponse `json:"cousins"`
	SameDepartment []dto.ElectorResponse `json:"sameDepartment"`
	SameTeam       []dto.ElectorResponse `json:"sameTeam"`
	SameArea       []dto.ElectorResponse `json:"sameArea"`
}

// FindRelationships computes the relative lists for one elector by the
// name-part equality rules. Each list is capped at 10 records.
func FindRelationships(db *gorm.DB, self *model.ElectorModel) (*Relationships, error) {
	rel := &Relationships{}

	active := func() *gorm.DB {
		return db.Model(&model.ElectorModel{}).
			Where("is_active = true AND koc_id <> ?", self.KocID)
	}

	// Brothers: share name_second and name_third; tie-break name_fourth when
	// present, else family_name.
	var brothers []model.ElectorModel
	if self.NameSecond != "" && self.NameThird != "" {
		q := active().Where("name_second = ? AND name_third = ?", self.NameSecond, self.NameThird)
		if self.NameFourth != "" {
			q = q.Where("name_fourth = ? OR name_fourth = ''", self.NameFourth)
		} else {
			q = q.Where("family_name = ?", self.FamilyName)
		}
		if err := q.Limit(relationCap).Find(&brothers).Error; err != nil {
			return nil, err
		}
	}

	// Fathers: candidate.first = self.second, candidate.second = self.third,
	// same family.
	var fathers []model.ElectorModel
	if self.NameSecond != "" {
		q := active().Where(
			"name_first = ? AND name_second = ? AND family_name = ?",
			self.NameSecond, self.NameThird, self.FamilyName,
		)
		if err := q.Limit(relationCap).Find(&fathers).Error; err != nil {
			return nil, err
		}
	}

	// Sons: candidate.second = self.first, same family.
	var sons []model.ElectorModel
	if err := active().
		Where("name_second = ? AND family_name = ?", self.NameFirst, self.FamilyName).
		Limit(relationCap).Find(&sons).Error; err != nil {
		return nil, err
	}

	// Cousins: share name_third and name_fourth, brothers excluded; tie-break
	// name_fifth when present, else family_name.
	var cousins []model.ElectorModel
	if self.NameThird != "" && self.NameFourth != "" {
		q := active().
			Where("name_third = ? AND name_fourth = ?", self.NameThird, self.NameFourth).
			Where("name_second <> ?", self.NameSecond)
		if self.NameFifth != "" {
			q = q.Where("name_fifth = ? OR name_fifth = ''", self.NameFifth)
		} else {
			q = q.Where("family_name = ?", self.FamilyName)
		}
		if err := q.Limit(relationCap).Find(&cousins).Error; err != nil {
			return nil, err
		}
	}

	var sameDept, sameTeam, sameArea []model.ElectorModel
	if self.Department != "" {
		if err := active().Where("department = ?", self.Department).
			Limit(relationCap).Find(&sameDept).Error; err != nil {
			return nil, err
		}
	}
	if self.Team != "" {
		if err := active().Where("team = ?", self.Team).
			Limit(relationCap).Find(&sameTeam).Error; err != nil {
			return nil, err
		}
	}
	if self.Area != "" {
		if err := active().Where("area = ?", self.Area).
			Limit(relationCap).Find(&sameArea).Error; err != nil {
			return nil, err
		}
	}

	// One guarantee lookup for every elector across all lists.
	guaranteed, err := guaranteedSet(db, collectKocIDs(brothers, fathers, sons, cousins, sameDept, sameTeam, sameArea))
	if err != nil {
		return nil, err
	}

	rel.Brothers = decorate(brothers, guaranteed)
	rel.Fathers = decorate(fathers, guaranteed)
	rel.Sons = decorate(sons, guaranteed)
	rel.Cousins = decorate(cousins, guaranteed)
	rel.SameDepartment = decorate(sameDept, guaranteed)
	rel.SameTeam = decorate(sameTeam, guaranteed)
	rel.SameArea = decorate(sameArea, guaranteed)
	return rel, nil
}

func collectKocIDs(lists ...[]model.ElectorModel) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, list := range lists {
		for _, e := range list {
			if _, ok := seen[e.KocID]; !ok {
				seen[e.KocID] = struct{}{}
				out = append(out, e.KocID)
			}
		}
	}
	return out
}

// guaranteedSet returns which of the given KOC IDs have any guarantee,
// regardless of collector.
func guaranteedSet(db *gorm.DB, kocIDs []string) (map[string]bool, error) {
	set := map[string]bool{}
	if len(kocIDs) == 0 {
		return set, nil
	}
	var rows []string
	if err := db.Table("guarantees").
		Where("elector_koc_id IN ?", kocIDs).
		Distinct("elector_koc_id").
		Pluck("elector_koc_id", &rows).Error; err != nil {
		return nil, err
	}
	for _, id := range rows {
		set[id] = true
	}
	return set, nil
}

func decorate(list []model.ElectorModel, guaranteed map[string]bool) []dto.ElectorResponse {
	out := make([]dto.ElectorResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.NewElectorResponse(e, guaranteed[e.KocID]))
	}
	return out
}
