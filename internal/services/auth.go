package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/emenu-app/emenu-backend/internal/models"
	"github.com/emenu-app/emenu-backend/internal/types"
	"github.com/emenu-app/emenu-backend/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountSuspended   = errors.New("account is suspended")
	ErrEmailTaken         = errors.New("email already registered")
)

type AuthService struct {
	db                *gorm.DB
	jwtSecret         string
	validationService *ValidationService
	emailService      *EmailService
	baseURL           string
}

func NewAuthService(db *gorm.DB, jwtSecret string, validationService *ValidationService, emailService *EmailService, baseURL string) *AuthService {
	return &AuthService{
		db:                db,
		jwtSecret:         jwtSecret,
		validationService: validationService,
		emailService:      emailService,
		baseURL:           baseURL,
	}
}

type SignupRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Role        string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	City        string `json:"city"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ClientInfo carries what the login history keeps about the request.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

func (s *AuthService) Signup(req SignupRequest) (*types.AuthResponse, error) {
	if !utils.IsValidEmail(req.Email) {
		return nil, fieldError("email", "invalid email format")
	}
	if !utils.IsValidPassword(req.Password) {
		return nil, fieldError("password", "must be at least 8 characters")
	}
	if req.Role == "" {
		req.Role = models.RoleClient
	}
	if req.Role == models.RoleAdmin || !models.IsValidUserRole(req.Role) {
		return nil, fieldError("role", "role must be client or structure")
	}

	// External deliverability checks run only when the API keys are
	// configured.
	if s.validationService != nil {
		emailValid, err := s.validationService.IsEmailValid(req.Email)
		if err != nil {
			return nil, fmt.Errorf("email validation failed: %v", err)
		}
		if !emailValid {
			return nil, fieldError("email", "address is not valid or deliverable")
		}
		if req.PhoneNumber != "" {
			phoneValid, err := s.validationService.IsPhoneValid(req.PhoneNumber)
			if err != nil {
				return nil, fmt.Errorf("phone validation failed: %v", err)
			}
			if !phoneValid {
				return nil, fieldError("phone_number", "phone number is not valid")
			}
		}
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: failed to check email: %v", ErrDatabaseQuery, err)
	}

	user := models.User{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		City:        req.City,
		Role:        req.Role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to create user: %v", ErrDatabaseQuery, err)
	}

	if s.emailService != nil {
		// Best-effort; signup succeeds even if the mail does not go out.
		_ = s.emailService.SendWelcomeEmail(user.Email, user.FirstName)
	}

	return s.issueTokens(&user)
}

func (s *AuthService) Login(req LoginRequest, client ClientInfo) (*types.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: failed to fetch user: %v", ErrDatabaseQuery, err)
	}

	if !user.CheckPassword(req.Password) {
		s.recordLogin(&user, models.LoginActionFailedAttempt, false, client)
		return nil, ErrInvalidCredentials
	}
	if user.Status == models.UserStatusSuspended {
		s.recordLogin(&user, models.LoginActionFailedAttempt, false, client)
		return nil, ErrAccountSuspended
	}

	s.recordLogin(&user, models.LoginActionLogin, true, client)
	return s.issueTokens(&user)
}

func (s *AuthService) Logout(userID uint, refreshToken string, client ClientInfo) error {
	if err := s.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND token = ?", userID, refreshToken).
		Update("is_revoked", true).Error; err != nil {
		return fmt.Errorf("%w: failed to revoke token: %v", ErrDatabaseQuery, err)
	}
	var user models.User
	if err := s.db.First(&user, userID).Error; err == nil {
		s.recordLogin(&user, models.LoginActionLogout, true, client)
	}
	return nil
}

func (s *AuthService) RefreshTokens(req RefreshRequest) (*types.AuthResponse, error) {
	claims, err := utils.ValidateToken(req.RefreshToken, s.jwtSecret)
	if err != nil || claims.Type != string(utils.RefreshToken) {
		return nil, ErrInvalidCredentials
	}

	var stored models.RefreshToken
	if err := s.db.Where("token = ? AND is_revoked = ?", req.RefreshToken, false).
		First(&stored).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.First(&user, claims.UserID).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	// Rotate: the old refresh token dies with the new pair.
	if err := s.db.Model(&stored).Update("is_revoked", true).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to rotate token: %v", ErrDatabaseQuery, err)
	}
	return s.issueTokens(&user)
}

func (s *AuthService) GetProfile(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Structure").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: failed to fetch user: %v", ErrDatabaseQuery, err)
	}
	return &user, nil
}

func (s *AuthService) UpdateProfile(userID uint, req UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if req.Email != user.Email {
		var existing models.User
		if err := s.db.Where("email = ? AND id <> ?", req.Email, userID).First(&existing).Error; err == nil {
			return nil, ErrEmailTaken
		}
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Email = req.Email
	user.PhoneNumber = req.PhoneNumber
	user.Address = req.Address
	user.City = req.City

	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to update profile: %v", ErrDatabaseQuery, err)
	}
	return &user, nil
}

// ForgotPassword always reports success to the caller so account existence
// is not leaked; the mail only goes out when the user exists.
func (s *AuthService) ForgotPassword(req ForgotPasswordRequest) error {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil
	}

	token, err := utils.GenerateRandomString(32)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %v", err)
	}

	reset := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := s.db.Create(&reset).Error; err != nil {
		return fmt.Errorf("%w: failed to store reset token: %v", ErrDatabaseQuery, err)
	}

	if s.emailService != nil {
		return s.emailService.SendPasswordResetEmail(user.Email, token, s.baseURL)
	}
	return nil
}

func (s *AuthService) ResetPassword(req ResetPasswordRequest) error {
	if !utils.IsValidPassword(req.NewPassword) {
		return fieldError("new_password", "must be at least 8 characters")
	}

	var reset models.PasswordResetToken
	if err := s.db.Where("token = ? AND is_used = ?", req.Token, false).
		First(&reset).Error; err != nil {
		return formError("invalid or expired reset token")
	}
	if time.Now().After(reset.ExpiresAt) {
		return formError("invalid or expired reset token")
	}

	var user models.User
	if err := s.db.First(&user, reset.UserID).Error; err != nil {
		return formError("invalid or expired reset token")
	}
	if err := user.UpdatePassword(req.NewPassword); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("password", user.Password).Error; err != nil {
			return fmt.Errorf("%w: failed to update password: %v", ErrDatabaseQuery, err)
		}
		if err := tx.Model(&reset).Update("is_used", true).Error; err != nil {
			return fmt.Errorf("%w: failed to consume reset token: %v", ErrDatabaseQuery, err)
		}
		// Existing sessions die with the old password.
		return tx.Model(&models.RefreshToken{}).
			Where("user_id = ?", user.ID).
			Update("is_revoked", true).Error
	})
}

func (s *AuthService) ChangePassword(userID uint, req ChangePasswordRequest) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return ErrInvalidCredentials
	}
	if !user.CheckPassword(req.CurrentPassword) {
		return fieldError("current_password", "current password is incorrect")
	}
	if !utils.IsValidPassword(req.NewPassword) {
		return fieldError("new_password", "must be at least 8 characters")
	}
	if err := user.UpdatePassword(req.NewPassword); err != nil {
		return err
	}
	return s.db.Model(&user).Update("password", user.Password).Error
}

func (s *AuthService) issueTokens(user *models.User) (*types.AuthResponse, error) {
	pair, err := utils.GenerateTokenPair(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %v", err)
	}

	stored := models.RefreshToken{
		UserID:    user.ID,
		Token:     pair.RefreshToken,
		ExpiresAt: time.Unix(pair.RefreshTokenExpiresAt, 0),
	}
	if err := s.db.Create(&stored).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to store refresh token: %v", ErrDatabaseQuery, err)
	}

	return &types.AuthResponse{
		Token: types.TokenPair{
			AccessToken:           pair.AccessToken,
			RefreshToken:          pair.RefreshToken,
			AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		},
		User: *user,
	}, nil
}

func (s *AuthService) recordLogin(user *models.User, action string, success bool, client ClientInfo) {
	entry := models.LoginHistory{
		UserID:    user.ID,
		Action:    action,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
		Success:   success,
	}
	// History is best-effort; a failed insert must not block the login.
	_ = s.db.Create(&entry).Error
}
