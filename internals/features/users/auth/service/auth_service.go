// internals/features/users/auth/service/auth_service.go
package service

import (
	"errors"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"intikhab_backend/internals/configs"
	authModel "intikhab_backend/internals/features/users/auth/model"
	userModel "intikhab_backend/internals/features/users/user/model"
	helper "intikhab_backend/internals/helpers"
)

var validate = validator.New()

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ========================== LOGIN ==========================
// POST /api/auth/login/
func Login(db *gorm.DB, c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var user userModel.UserModel
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Internal Server Error")
	}
	if !user.IsActive {
		return helper.Error(c, fiber.StatusForbidden, "Account has been deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	access, refresh, err := IssueTokenPair(db, c, user)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to issue tokens")
	}

	return helper.JsonOK(c, "Login successful", fiber.Map{
		"access":  access,
		"refresh": refresh,
		"user":    user,
	})
}

// ========================== GOOGLE LOGIN ==========================
// POST /api/auth/login-google/
// Verifies a Google ID token and signs in an existing, active account. No
// self-registration: unknown emails are rejected.
func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	var req struct {
		IDToken string `json:"idToken" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if configs.GoogleClientID == "" {
		return helper.Error(c, fiber.StatusServiceUnavailable, "Google sign-in is not configured")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(req.IDToken, []string{configs.GoogleClientID}); err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Invalid Google token")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(req.IDToken)
	if err != nil || claimSet.Email == "" {
		return helper.Error(c, fiber.StatusUnauthorized, "Invalid Google token")
	}

	var user userModel.UserModel
	if err := db.Where("email = ?", strings.ToLower(claimSet.Email)).First(&user).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "No account for this Google email")
	}
	if !user.IsActive {
		return helper.Error(c, fiber.StatusForbidden, "Account has been deactivated")
	}

	access, refresh, err := IssueTokenPair(db, c, user)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to issue tokens")
	}

	return helper.JsonOK(c, "Login successful", fiber.Map{
		"access":  access,
		"refresh": refresh,
		"user":    user,
	})
}

// ========================== LOGOUT ==========================
// POST /api/auth/logout/
// Blacklists the presented access token and revokes the refresh session.
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	raw, _ := c.Locals("raw_token").(string)

	expiredAt := time.Now().Add(configs.AccessTokenTTL())
	if claims := parseUnverified(raw); claims != nil {
		if exp, ok := claims["exp"].(float64); ok {
			expiredAt = time.Unix(int64(exp), 0)
		}
	}

	if err := db.Create(&authModel.TokenBlacklist{
		Token:     raw,
		ExpiredAt: expiredAt,
	}).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to blacklist token")
	}

	if err := RevokeRefreshTokens(db, userID); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to revoke sessions")
	}

	return helper.JsonOK(c, "Logged out", nil)
}

func parseUnverified(raw string) jwt.MapClaims {
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil
	}
	return claims
}
