package seeds

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	candidateModel "intikhab_backend/internals/features/candidates/model"
	electionModel "intikhab_backend/internals/features/elections/model"
	electorModel "intikhab_backend/internals/features/electorate/model"
	helper "intikhab_backend/internals/helpers"
)

// SeedDemoElection creates a small self-consistent data set: one election in
// guarantee phase, a male and a female committee, a handful of electors split
// between them, and five candidates across two lists. Idempotent by election
// name.
func SeedDemoElection(db *gorm.DB) {
	var existing electionModel.ElectionModel
	if err := db.Where("name = ?", "Demo Union Election").First(&existing).Error; err == nil {
		log.Println("ℹ️ demo election already seeded, skipping")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		election := electionModel.ElectionModel{
			Name:       "Demo Union Election",
			Status:     electionModel.ElectionStatusGuarantee,
			VotingMode: "IN_PERSON",
		}
		if err := tx.Create(&election).Error; err != nil {
			return err
		}

		committees := []electionModel.CommitteeModel{
			{ElectionID: election.ID, Code: "M1", Name: "Main Hall - Men", Gender: electionModel.GenderMale, Location: "Main Hall"},
			{ElectionID: election.ID, Code: "F1", Name: "Main Hall - Women", Gender: electionModel.GenderFemale, Location: "Main Hall"},
		}
		if err := tx.Create(&committees).Error; err != nil {
			return err
		}

		names := []string{
			"Ahmad Khalid Al Rashidi",
			"Mohammad Jassem Al Mutairi",
			"Fahad Nasser Al Otaibi",
			"Sara Yousef Al Enezi",
			"Noura Salem Al Ajmi",
			"Mariam Abdullah Al Shammari",
		}
		for i, full := range names {
			committee := committees[0]
			gender := "MALE"
			if i >= 3 {
				committee = committees[1]
				gender = "FEMALE"
			}
			elector := electorModel.ElectorModel{
				KocID:       fmt.Sprintf("1%04d", i+1),
				CommitteeID: &committee.ID,
				Gender:      gender,
				Department:  "Operations",
				Team:        "Team A",
				Area:        "Ahmadi",
				IsActive:    true,
				IsApproved:  true,
			}
			elector.ApplyNameParts(helper.ParseFullName(full))
			if err := tx.Create(&elector).Error; err != nil {
				return err
			}
		}

		parties := []candidateModel.PartyModel{
			{ElectionID: election.ID, Name: "Unity List", Color: "#2563EB", IsActive: true},
			{ElectionID: election.ID, Name: "Progress List", Color: "#16A34A", IsActive: true},
		}
		if err := tx.Create(&parties).Error; err != nil {
			return err
		}

		candidates := []candidateModel.CandidateModel{
			{ElectionID: election.ID, CandidateNumber: 1, Name: "Khaled Al Sabah", PartyID: &parties[0].ID, IsActive: true},
			{ElectionID: election.ID, CandidateNumber: 2, Name: "Abdullah Al Kandari", PartyID: &parties[0].ID, IsActive: true},
			{ElectionID: election.ID, CandidateNumber: 3, Name: "Faisal Al Dousari", PartyID: &parties[1].ID, IsActive: true},
			{ElectionID: election.ID, CandidateNumber: 4, Name: "Hamad Al Azmi", PartyID: &parties[1].ID, IsActive: true},
			{ElectionID: election.ID, CandidateNumber: 5, Name: "Bader Al Harbi", IsActive: true},
		}
		return tx.Create(&candidates).Error
	})
	if err != nil {
		log.Printf("❌ demo seed failed: %v", err)
		return
	}
	log.Println("✅ Demo election seeded")
}
