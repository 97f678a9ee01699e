package seeds

import (
	"log"

	"gorm.io/gorm"
)

// RunAllSeeds provisions the minimum data a fresh deployment needs: the
// super admin account and, when SEED_DEMO is set, a demo election with
// committees, electors and candidates for local testing.
func RunAllSeeds(db *gorm.DB, demo bool) {
	SeedSuperAdmin(db)

	if demo {
		log.Println("🌱 SEED_DEMO enabled, seeding demo election data...")
		SeedDemoElection(db)
	}
}
