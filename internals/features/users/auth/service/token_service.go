// internals/features/users/auth/service/token_service.go
package service

import (
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"intikhab_backend/internals/configs"
	authModel "intikhab_backend/internals/features/users/auth/model"
	userModel "intikhab_backend/internals/features/users/user/model"
	helper "intikhab_backend/internals/helpers"
)

// ========================== CLAIMS ==========================

func buildAccessClaims(u userModel.UserModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"role":  u.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(configs.AccessTokenTTL()).Unix(),
	}
}

func buildRefreshClaims(userID uint, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(configs.RefreshTokenTTL()).Unix(),
	}
}

func signToken(claims jwt.MapClaims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// computeRefreshHash keys stored refresh tokens; raw tokens never hit the DB.
func computeRefreshHash(token, secret string) string {
	sum := sha256.Sum256([]byte(token + "." + secret))
	return hex.EncodeToString(sum[:])
}

// IssueTokenPair creates access+refresh tokens and stores the refresh hash.
func IssueTokenPair(db *gorm.DB, c *fiber.Ctx, u userModel.UserModel) (access string, refresh string, err error) {
	now := time.Now().UTC()

	access, err = signToken(buildAccessClaims(u, now), configs.JWTSecret)
	if err != nil {
		return "", "", err
	}
	refresh, err = signToken(buildRefreshClaims(u.ID, now), configs.JWTRefreshSecret)
	if err != nil {
		return "", "", err
	}

	rec := authModel.RefreshTokenModel{
		UserID:    u.ID,
		Token:     computeRefreshHash(refresh, configs.JWTRefreshSecret),
		ExpiresAt: now.Add(configs.RefreshTokenTTL()),
		UserAgent: strptr(c.Get("User-Agent")),
		IP:        strptr(c.IP()),
	}
	if err := db.Create(&rec).Error; err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ========================== REFRESH TOKEN ==========================
// POST /api/auth/refresh/
func RefreshToken(db *gorm.DB, c *fiber.Ctx) error {
	var body struct {
		Refresh string `json:"refresh"`
	}
	if err := c.BodyParser(&body); err != nil || strings.TrimSpace(body.Refresh) == "" {
		return helper.Error(c, fiber.StatusUnauthorized, "Refresh token missing")
	}
	raw := strings.TrimSpace(body.Refresh)

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return helper.Error(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}
	claims, _ := tok.Claims.(jwt.MapClaims)
	sub, _ := claims["sub"].(float64)
	if sub <= 0 {
		return helper.Error(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}
	userID := uint(sub)

	// The hash must still be on record (not rotated out or revoked).
	h := computeRefreshHash(raw, configs.JWTRefreshSecret)
	var rec authModel.RefreshTokenModel
	if err := db.Where("token = ?", h).First(&rec).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Refresh token not recognized")
	}
	if time.Now().After(rec.ExpiresAt) {
		_ = db.Delete(&rec).Error
		return helper.Error(c, fiber.StatusUnauthorized, "Refresh token expired")
	}

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "User not found")
	}
	if !user.IsActive {
		return helper.Error(c, fiber.StatusForbidden, "Account has been deactivated")
	}

	// ROTATE: drop the old hash before issuing a new pair.
	if err := db.Delete(&rec).Error; err != nil {
		log.Printf("[refresh] delete old hash failed: %v", err)
	}

	access, refresh, err := IssueTokenPair(db, c, user)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to issue tokens")
	}

	return helper.JsonOK(c, "Token refreshed", fiber.Map{
		"access":  access,
		"refresh": refresh,
	})
}

// RevokeRefreshTokens drops every active session for a user (logout-all).
func RevokeRefreshTokens(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&authModel.RefreshTokenModel{}).Error
}

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
