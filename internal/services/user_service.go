package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/logger"
	"networth/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	db     *gorm.DB
	groups GroupServicer
	sender CodeSender
}

// NewUserService creates a new UserServicer. The group service is used
// to provision the default asset groups for new users; sender delivers
// verification codes.
func NewUserService(db *gorm.DB, groups GroupServicer, sender CodeSender) UserServicer {
	if sender == nil {
		sender = logCodeSender{}
	}
	return &userService{db: db, groups: groups, sender: sender}
}

// CreateUser registers a new user and provisions their default asset
// groups. Registration succeeds even if provisioning fails; the groups
// are re-ensured on first use.
func (s *userService) CreateUser(email, password, preferredName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:         email,
		Password:      string(hashed),
		PreferredName: preferredName,
		IsActive:      true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if _, _, err := s.groups.EnsureDefaultGroups(user.ID); err != nil {
		logger.Get().Warnw("failed to provision default asset groups",
			"user_id", user.ID,
			"error", err,
		)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks a plaintext password against the stored hash.
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

// RequestEmailCode issues a fresh email verification code and hands it
// to the sender. Delivery failures are logged, not surfaced.
func (s *userService) RequestEmailCode(userID string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return apperrors.ErrAlreadyVerified
	}

	code, err := generateCode()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(user).Update("email_code", code).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.sender.SendEmailCode(user.Email, code); err != nil {
		logger.Get().Warnw("failed to deliver email verification code",
			"user_id", user.ID,
			"error", err,
		)
	}
	return nil
}

// ConfirmEmail marks the user's email verified if the code matches.
func (s *userService) ConfirmEmail(userID, code string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return apperrors.ErrAlreadyVerified
	}
	if user.EmailCode == "" || user.EmailCode != code {
		return apperrors.ErrInvalidCode
	}

	updates := map[string]interface{}{
		"email_verified": true,
		"email_code":     "",
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RequestSMSCode stores the phone number and issues an SMS
// verification code.
func (s *userService) RequestSMSCode(userID, phoneNumber string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	code, err := generateCode()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	updates := map[string]interface{}{
		"phone_number": phoneNumber,
		"sms_code":     code,
		"sms_verified": false,
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.sender.SendSMSCode(phoneNumber, code); err != nil {
		logger.Get().Warnw("failed to deliver sms verification code",
			"user_id", user.ID,
			"error", err,
		)
	}
	return nil
}

// ConfirmSMS marks the user's phone number verified if the code matches.
func (s *userService) ConfirmSMS(userID, code string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.SMSVerified {
		return apperrors.ErrAlreadyVerified
	}
	if user.SMSCode == "" || user.SMSCode != code {
		return apperrors.ErrInvalidCode
	}

	updates := map[string]interface{}{
		"sms_verified": true,
		"sms_code":     "",
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// generateCode returns a random six digit verification code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// logCodeSender is the default CodeSender; it only logs. Real delivery
// backends are wired in at startup when configured.
type logCodeSender struct{}

func (logCodeSender) SendEmailCode(email, code string) error {
	logger.Get().Infow("email verification code issued", "email", email)
	return nil
}

func (logCodeSender) SendSMSCode(phoneNumber, code string) error {
	logger.Get().Infow("sms verification code issued", "phone_number", phoneNumber)
	return nil
}
