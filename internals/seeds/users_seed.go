package seeds

import (
	"log"

	"gorm.io/gorm"

	"intikhab_backend/internals/configs"
	"intikhab_backend/internals/constants"
	authService "intikhab_backend/internals/features/users/auth/service"
	userModel "intikhab_backend/internals/features/users/user/model"
)

// SeedSuperAdmin guarantees one SUPER_ADMIN account exists. Credentials come
// from SUPER_ADMIN_EMAIL / SUPER_ADMIN_PASSWORD, with dev defaults.
func SeedSuperAdmin(db *gorm.DB) {
	email := configs.GetEnv("SUPER_ADMIN_EMAIL", "admin@intikhab.local")

	var existing userModel.UserModel
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return
	}

	hashed, err := authService.HashPassword(configs.GetEnv("SUPER_ADMIN_PASSWORD", "ChangeMe123!"))
	if err != nil {
		log.Printf("❌ super admin seed: hash failed: %v", err)
		return
	}

	admin := userModel.UserModel{
		UserName: "Super Admin",
		Email:    email,
		Password: hashed,
		Role:     constants.RoleSuperAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("❌ super admin seed: insert failed: %v", err)
		return
	}
	log.Printf("✅ Seeded super admin '%s'", email)
}
