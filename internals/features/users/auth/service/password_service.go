// internals/features/users/auth/service/password_service.go
package service

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	userModel "intikhab_backend/internals/features/users/user/model"
	helper "intikhab_backend/internals/helpers"
)

// ChangePassword lets the authenticated principal rotate their own password.
// All refresh sessions are revoked afterwards.
func ChangePassword(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req struct {
		OldPassword     string `json:"oldPassword" validate:"required"`
		NewPassword     string `json:"newPassword" validate:"required,min=8"`
		PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=NewPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Old password is incorrect")
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to hash password")
	}
	if err := db.Model(&user).Update("password", hashed).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update password")
	}

	if err := RevokeRefreshTokens(db, userID); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to revoke sessions")
	}

	return helper.JsonOK(c, "Password changed", nil)
}

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
