package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/Realquiid/vendopage/internal/adapter/email"
	"github.com/Realquiid/vendopage/internal/app/config"
	"github.com/Realquiid/vendopage/internal/domain/entity"
	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6

	profilePhotoFolder  = "profiles"
	maxProfilePhotoSize = 5 * 1024 * 1024
)

type RegisterParams struct {
	Username       string
	Email          string
	Password       string
	BusinessName   string
	WhatsappNumber string
	Category       string
}

type SellerService interface {
	Register(ctx context.Context, params RegisterParams) (*entity.Seller, string, error)
	Login(ctx context.Context, username, password string) (*entity.Seller, string, error)
	GetByID(ctx context.Context, id string) (*entity.Seller, error)
	UpdateBusinessInfo(ctx context.Context, sellerID, businessName, bio, category, whatsappNumber string) error
	UpdateEmail(ctx context.Context, sellerID, newEmail string) error
	ChangePassword(ctx context.Context, sellerID, currentPassword, newPassword string) error
	UpdateProfilePicture(ctx context.Context, sellerID string, image entity.ImagePayload) (*entity.Seller, error)
	RemoveProfilePicture(ctx context.Context, sellerID string) error
	// LookupByWhatsapp resolves an active seller from a raw phone number, the
	// way the WhatsApp bot sends it (country code, spaces, dashes included).
	LookupByWhatsapp(ctx context.Context, phone string) (*entity.Seller, error)
	RequestPasswordReset(ctx context.Context, emailAddr string) error
	VerifyResetCode(ctx context.Context, emailAddr, code string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type sellerService struct {
	sellerRepo repository.SellerRepository
	resetRepo  repository.PasswordResetRepository
	mailer     email.Sender
	storage    ImageStorage
	authCfg    config.AuthConfig
	log        logger.Logger
}

func NewSellerService(
	sellerRepo repository.SellerRepository,
	resetRepo repository.PasswordResetRepository,
	mailer email.Sender,
	storage ImageStorage,
	authCfg config.AuthConfig,
	log logger.Logger,
) SellerService {
	return &sellerService{
		sellerRepo: sellerRepo,
		resetRepo:  resetRepo,
		mailer:     mailer,
		storage:    storage,
		authCfg:    authCfg,
		log:        log,
	}
}

func (s *sellerService) Register(ctx context.Context, params RegisterParams) (*entity.Seller, string, error) {
	if len(params.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	if err := s.checkUniqueness(ctx, params); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	seller, err := entity.NewSeller(params.Username, params.Email, string(hash),
		params.BusinessName, params.WhatsappNumber, params.Category)
	if err != nil {
		return nil, "", err
	}

	slug, err := generateSlug(ctx, s.sellerRepo, seller.BusinessName)
	if err != nil {
		return nil, "", err
	}
	seller.Slug = slug

	id, err := s.sellerRepo.Create(ctx, seller)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", err
	}
	seller.ID = id

	token, err := s.issueToken(seller)
	if err != nil {
		return nil, "", err
	}

	s.log.Infof("seller %s registered with slug %s", seller.Username, seller.Slug)
	return seller, token, nil
}

func (s *sellerService) checkUniqueness(ctx context.Context, params RegisterParams) error {
	if _, err := s.sellerRepo.GetByUsername(ctx, params.Username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if _, err := s.sellerRepo.GetByEmail(ctx, params.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if _, err := s.sellerRepo.GetByWhatsappNumber(ctx, params.WhatsappNumber); err == nil {
		return ErrWhatsappTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func (s *sellerService) Login(ctx context.Context, username, password string) (*entity.Seller, string, error) {
	seller, err := s.sellerRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !seller.IsActive {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(seller.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(seller)
	if err != nil {
		return nil, "", err
	}
	return seller, token, nil
}

func (s *sellerService) issueToken(seller *entity.Seller) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      seller.ID,
		"username": seller.Username,
		"is_staff": seller.IsStaff,
		"iat":      now.Unix(),
		"exp":      now.Add(s.authCfg.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.authCfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *sellerService) GetByID(ctx context.Context, id string) (*entity.Seller, error) {
	seller, err := s.sellerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return seller, nil
}

func (s *sellerService) UpdateBusinessInfo(ctx context.Context, sellerID, businessName, bio, category, whatsappNumber string) error {
	businessName = strings.TrimSpace(businessName)
	whatsappNumber = strings.TrimSpace(whatsappNumber)
	if businessName == "" {
		return errors.New("business name is required")
	}
	if whatsappNumber == "" {
		return errors.New("whatsapp number is required")
	}

	seller, err := s.GetByID(ctx, sellerID)
	if err != nil {
		return err
	}

	if other, err := s.sellerRepo.GetByWhatsappNumber(ctx, whatsappNumber); err == nil && other.ID != sellerID {
		return ErrWhatsappTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	seller.BusinessName = businessName
	seller.Bio = bio
	seller.Category = category
	seller.WhatsappNumber = whatsappNumber
	return s.sellerRepo.Update(ctx, seller)
}

func (s *sellerService) UpdateEmail(ctx context.Context, sellerID, newEmail string) error {
	newEmail = strings.ToLower(strings.TrimSpace(newEmail))

	seller, err := s.GetByID(ctx, sellerID)
	if err != nil {
		return err
	}

	if other, err := s.sellerRepo.GetByEmail(ctx, newEmail); err == nil && other.ID != sellerID {
		return ErrEmailTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	seller.Email = newEmail
	if err := s.sellerRepo.Update(ctx, seller); err != nil {
		return err
	}
	s.log.Infof("seller %s updated email", sellerID)
	return nil
}

func (s *sellerService) ChangePassword(ctx context.Context, sellerID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	seller, err := s.GetByID(ctx, sellerID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(seller.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	seller.PasswordHash = string(hash)
	return s.sellerRepo.Update(ctx, seller)
}

func (s *sellerService) UpdateProfilePicture(ctx context.Context, sellerID string, image entity.ImagePayload) (*entity.Seller, error) {
	data, err := base64.StdEncoding.DecodeString(image.Content)
	if err != nil {
		return nil, ErrInvalidImage
	}
	if len(data) > maxProfilePhotoSize {
		return nil, ErrImageTooLarge
	}
	switch http.DetectContentType(data) {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
	default:
		return nil, ErrInvalidImage
	}

	seller, err := s.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	url, _, err := s.storage.Upload(ctx, profilePhotoFolder, image.Filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload profile picture: %w", err)
	}

	seller.ProfilePictureURL = url
	if err := s.sellerRepo.Update(ctx, seller); err != nil {
		return nil, err
	}
	s.log.Infof("seller %s updated profile picture", sellerID)
	return seller, nil
}

func (s *sellerService) RemoveProfilePicture(ctx context.Context, sellerID string) error {
	seller, err := s.GetByID(ctx, sellerID)
	if err != nil {
		return err
	}
	if seller.ProfilePictureURL == "" {
		return nil
	}
	seller.ProfilePictureURL = ""
	return s.sellerRepo.Update(ctx, seller)
}

func (s *sellerService) LookupByWhatsapp(ctx context.Context, phone string) (*entity.Seller, error) {
	number := normalizeWhatsappNumber(phone)
	if number == "" {
		return nil, ErrSellerNotFound
	}

	seller, err := s.sellerRepo.GetByWhatsappNumber(ctx, number)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		// Fall back to a partial match on the last 10 digits; numbers are
		// stored with inconsistent country-code prefixes.
		digits := number
		if len(digits) > 10 {
			digits = digits[len(digits)-10:]
		}
		seller, err = s.sellerRepo.GetByWhatsappSuffix(ctx, digits)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrSellerNotFound
			}
			return nil, err
		}
	}

	if !seller.IsActive {
		return nil, ErrSellerNotFound
	}
	return seller, nil
}

// normalizeWhatsappNumber strips formatting characters and rewrites the
// Nigerian country code to the local 0 prefix.
func normalizeWhatsappNumber(phone string) string {
	replacer := strings.NewReplacer("+", "", "-", "", " ", "")
	number := strings.TrimSpace(replacer.Replace(phone))
	if strings.HasPrefix(number, "234") {
		number = "0" + number[3:]
	}
	return number
}

func (s *sellerService) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	seller, err := s.sellerRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Do not reveal whether the address is registered.
			s.log.Infof("password reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := generateResetCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	if err := s.resetRepo.SaveCode(ctx, emailAddr, code, s.authCfg.ResetCodeTTL); err != nil {
		return err
	}

	body := fmt.Sprintf("Hi %s,\n\nYour VendoPage password reset code is: %s\n\nIt expires in %d minutes.",
		seller.BusinessName, code, int(s.authCfg.ResetCodeTTL.Minutes()))
	if err := s.mailer.Send(emailAddr, "VendoPage password reset", body); err != nil {
		return err
	}

	s.log.Infof("password reset code sent for seller %s", seller.ID)
	return nil
}

func (s *sellerService) VerifyResetCode(ctx context.Context, emailAddr, code string) (string, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	stored, err := s.resetRepo.GetCode(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidResetCode
		}
		return "", err
	}
	if stored != code {
		return "", ErrInvalidResetCode
	}

	// Code is one-shot: swap it for a short-lived reset token.
	if err := s.resetRepo.DeleteCode(ctx, emailAddr); err != nil {
		return "", err
	}

	token := uuid.New().String()
	if err := s.resetRepo.SaveResetToken(ctx, token, emailAddr, s.authCfg.ResetTokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

func (s *sellerService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	emailAddr, err := s.resetRepo.GetResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	seller, err := s.sellerRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	seller.PasswordHash = string(hash)
	if err := s.sellerRepo.Update(ctx, seller); err != nil {
		return err
	}

	_ = s.resetRepo.DeleteResetToken(ctx, token)
	s.log.Infof("password reset completed for seller %s", seller.ID)
	return nil
}

func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
