package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/middleware"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		services.Audit(middleware.GetUserID(c), "register", "user", "", false, "missing email or password",
			map[string]interface{}{"email": req.Email})
		return respondErr(c, fiber.StatusBadRequest, "Email and password are required")
	}

	// Check if user exists
	var existingUser models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return respondErr(c, fiber.StatusConflict, "Email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := models.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     req.Name,
		UserName: req.UserName,
		Role:     models.RoleGuest,
		IsActive: true,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		services.Audit(user.ID, "register", "user", "", false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	token, err := middleware.GenerateToken(user.ID, user.Email)
	if err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	services.Audit(user.ID, "register", "user", user.ID.String(), true, "", nil)
	return respondCreated(c, "Registered", models.AuthResponse{Token: token, User: user})
}

func Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return respondErr(c, fiber.StatusBadRequest, "Email and password are required")
	}

	var user models.User
	if err := database.DB.Where("email = ? AND is_active = ?", req.Email, true).First(&user).Error; err != nil {
		return respondErr(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		services.Audit(user.ID, "login", "user", user.ID.String(), false, "bad password", nil)
		return respondErr(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := middleware.GenerateToken(user.ID, user.Email)
	if err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	services.Audit(user.ID, "login", "user", user.ID.String(), true, "", nil)
	return respondOK(c, "Logged in", models.AuthResponse{Token: token, User: user})
}

func GetMe(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var user models.User
	if err := database.DB.First(&user, "id = ? AND is_active = ?", userID, true).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "User not found")
	}

	return respondOK(c, "OK", user)
}

func UpdateProfile(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var user models.User
	if err := database.DB.First(&user, "id = ? AND is_active = ?", userID, true).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "User not found")
	}

	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := database.DB.Save(&user).Error; err != nil {
		services.Audit(userID, "update_profile", "user", userID.String(), false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to update profile")
	}

	services.Audit(userID, "update_profile", "user", userID.String(), true, "", nil)
	return respondOK(c, "Profile updated", user)
}

func UpdateUserName(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.UpdateUserNameRequest
	if err := c.BodyParser(&req); err != nil || req.UserName == "" {
		return respondErr(c, fiber.StatusBadRequest, "userName is required")
	}

	var taken models.User
	if err := database.DB.Where("user_name = ? AND id != ?", req.UserName, userID).First(&taken).Error; err == nil {
		return respondErr(c, fiber.StatusConflict, "Username is already taken")
	}

	result := database.DB.Model(&models.User{}).
		Where("id = ? AND is_active = ?", userID, true).
		Update("user_name", req.UserName)
	if result.RowsAffected == 0 {
		return respondErr(c, fiber.StatusNotFound, "User not found")
	}

	services.Audit(userID, "update_username", "user", userID.String(), true, "",
		map[string]interface{}{"userName": req.UserName})
	return respondOK(c, "Username updated", fiber.Map{"userName": req.UserName})
}

// DeleteAccount deactivates the user. Users are never hard-deleted.
func DeleteAccount(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	result := database.DB.Model(&models.User{}).
		Where("id = ? AND is_active = ?", userID, true).
		Update("is_active", false)
	if result.RowsAffected == 0 {
		return respondErr(c, fiber.StatusNotFound, "User not found or already inactive")
	}

	services.Audit(userID, "delete_account", "user", userID.String(), true, "", nil)
	return respondOK(c, "Account deactivated", nil)
}

// RegisterDeviceToken saves the FCM token for push notifications
func RegisterDeviceToken(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return respondErr(c, fiber.StatusBadRequest, "Token is required")
	}

	database.DB.Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", req.Token)

	return respondOK(c, "Device token registered", nil)
}

// googleTokenInfo represents the response from Google's tokeninfo endpoint
type googleTokenInfo struct {
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Sub           string `json:"sub"`
}

func GoogleLogin(c *fiber.Ctx) error {
	var req models.GoogleAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.IDToken == "" {
		return respondErr(c, fiber.StatusBadRequest, "ID token is required")
	}

	tokenInfo, err := verifyGoogleIDToken(req.IDToken)
	if err != nil {
		log.Printf("Google token verification failed: %v", err)
		return respondErr(c, fiber.StatusUnauthorized, "Invalid Google token")
	}

	// The token's aud will be the iOS client ID when signing in from iOS,
	// or the web client ID from other platforms.
	allowedIDs := os.Getenv("GOOGLE_CLIENT_IDS")
	if allowedIDs != "" {
		valid := false
		for _, id := range strings.Split(allowedIDs, ",") {
			if strings.TrimSpace(id) == tokenInfo.Aud {
				valid = true
				break
			}
		}
		if !valid {
			return respondErr(c, fiber.StatusUnauthorized, "Token not intended for this app")
		}
	}

	if tokenInfo.Email == "" {
		return respondErr(c, fiber.StatusBadRequest, "Email not available from Google account")
	}

	var user models.User
	err = database.DB.Where("email = ?", tokenInfo.Email).First(&user).Error
	if err != nil {
		user = models.User{
			Email:        tokenInfo.Email,
			Name:         tokenInfo.Name,
			AvatarURL:    tokenInfo.Picture,
			AuthProvider: "google",
			Role:         models.RoleGuest,
			IsActive:     true,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return respondErr(c, fiber.StatusInternalServerError, "Failed to create user")
		}
	}

	token, err := middleware.GenerateToken(user.ID, user.Email)
	if err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	services.Audit(user.ID, "login_google", "user", user.ID.String(), true, "", nil)
	return respondOK(c, "Logged in", models.AuthResponse{Token: token, User: user})
}

// verifyGoogleIDToken verifies a Google ID token using Google's tokeninfo endpoint
func verifyGoogleIDToken(idToken string) (*googleTokenInfo, error) {
	resp, err := http.Get("https://oauth2.googleapis.com/tokeninfo?id_token=" + idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token verification failed with status %d", resp.StatusCode)
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode token info: %w", err)
	}

	return &info, nil
}
