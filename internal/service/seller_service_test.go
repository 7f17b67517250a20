package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/Realquiid/vendopage/internal/app/config"
	"github.com/Realquiid/vendopage/internal/domain/entity"
	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

var testAuthCfg = config.AuthConfig{
	JWTSecret:     "test-secret",
	TokenTTL:      time.Hour,
	ResetCodeTTL:  15 * time.Minute,
	ResetTokenTTL: 15 * time.Minute,
}

func newSellerService(sellers *MockSellerRepository, resets *MockPasswordResetRepository, mailer *MockEmailSender) SellerService {
	return NewSellerService(sellers, resets, mailer, new(MockImageStorage), testAuthCfg, logger.NewNop())
}

func newSellerServiceWithStorage(sellers *MockSellerRepository, storage *MockImageStorage) SellerService {
	return NewSellerService(sellers, new(MockPasswordResetRepository), new(MockEmailSender), storage, testAuthCfg, logger.NewNop())
}

func validRegisterParams() RegisterParams {
	return RegisterParams{
		Username:       "amaka",
		Email:          "amaka@example.com",
		Password:       "secret12",
		BusinessName:   "Amaka Stores",
		WhatsappNumber: "+2348012345678",
		Category:       "fashion",
	}
}

func TestSellerService_Register_Success(t *testing.T) {
	mockSellers := new(MockSellerRepository)
	svc := newSellerService(mockSellers, new(MockPasswordResetRepository), new(MockEmailSender))

	mockSellers.On("GetByUsername", mock.Anything, "amaka").Return(nil, repository.ErrNotFound).Once()
	mockSellers.On("GetByEmail", mock.Anything, "amaka@example.com").Return(nil, repository.ErrNotFound).Once()
	mockSellers.On("GetByWhatsappNumber", mock.Anything, "+2348012345678").Return(nil, repository.ErrNotFound).Once()
	mockSellers.On("SlugExists", mock.Anything, "amaka-stores").Return(false, nil).Once()
	mockSellers.On("Create", mock.Anything, mock.MatchedBy(func(s *entity.Seller) bool {
		return s.Username == "amaka" && s.Slug == "amaka-stores" && s.Subscription == entity.SubscriptionFree && s.IsActive
	})).Return("seller1", nil).Once()

	seller, token, err := svc.Register(context.Background(), validRegisterParams())

	assert.NoError(t, err)
	assert.Equal(t, "seller1", seller.ID)
	assert.NotEmpty(t, token)

	// The issued token carries the seller ID and the staff flag.
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testAuthCfg.JWTSecret), nil
	})
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "seller1", claims["sub"])
	assert.Equal(t, false, claims["is_staff"])
	mockSellers.AssertExpectations(t)
}

func TestSellerService_Register_ShortPassword(t *testing.T) {
	svc := newSellerService(new(MockSellerRepository), new(MockPasswordResetRepository), new(MockEmailSender))

	params := validRegisterParams()
	params.Password = "abc"

	_, _, err := svc.Register(context.Background(), params)

	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestSellerService_Register_UsernameTaken(t *testing.T) {
	mockSellers := new(MockSellerRepository)
	svc := newSellerService(mockSellers, new(MockPasswordResetRepository), new(MockEmailSender))

	mockSellers.On("GetByUsername", mock.Anything, "amaka").Return(&entity.Seller{ID: "other"}, nil).Once()

	_, _, err := svc.Register(context.Background(), validRegisterParams())

	assert.ErrorIs(t, err, ErrUsernameTaken)
	mockSellers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSellerService_Login_Success(t *testing.T) {
	mockSellers := new(MockSellerRepository)
	svc := newSellerService(mockSellers, new(MockPasswordResetRepository), new(MockEmailSender))

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret12"), bcrypt.MinCost)
	seller := &entity.Seller{ID: "seller1", Username: "amaka", PasswordHash: string(hash), IsActive: true}

	mockSellers.On("GetByUsername", mock.Anything, "amaka").Return(seller, nil).Once()

	got, token, err := svc.Login(context.Background(), "amaka", "secret12")

	assert.NoError(t, err)
	assert.Equal(t, "seller1", got.ID)
	assert.NotEmpty(t, token)
}

func TestSellerService_Login_WrongPassword(t *testing.T) {
	mockSellers := new(MockSellerRepository)
	svc := newSellerService(mockSellers, new(MockPasswordResetRepository), new(MockEmailSender))

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret12"), bcrypt.MinCost)
	seller := &entity.Seller{ID: "seller1", Username: "amaka", PasswordHash: string(hash), IsActive: true}

	mockSellers.On("GetByUsername", mock.Anything, "amaka").Return(seller, nil).Once()

	_, _, err := svc.Login(context.Background(), "amaka", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSellerService_Login_DeactivatedSeller(t *testing.T) {
	mockSellers := new(MockSellerRepository)
	svc := newSellerService(mockSellers, new(MockPasswordResetRepository), new(MockEmailSender))

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret12"), bcrypt.MinCost)
	seller := &entity.Seller{ID: "seller1", Username: "amaka", PasswordHash: string(hash), IsActive: false}

	mockSellers.On("GetByUsername", mock.Anything, "amaka").Return(seller, nil).Once()

	_, _, err := svc.Login(context.Background(), "amaka", "secret12")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSellerService_RequestPasswordReset_SendsCode(t *testing.T) {
	mockSellers := new(MockSellerRepository)
	mockResets := new(MockPasswordResetRepository)
	mockMailer := new(MockEmailSender)
	svc := newSellerService(mockSellers, mockResets, mockMailer)

	seller := &entity.Seller{ID: "seller1", Email: "amaka@example.com", BusinessName: "Amaka Stores"}

	var savedCode string
	mockSellers.On("GetByEmail", mock.Anything, "amaka@example.com").Return(seller, nil).Once()
	mockResets.On("SaveCode", mock.Anything, "amaka@example.com", mock.MatchedBy(func(code string) bool {
		savedCode = code
		return len(code) == 6
	}), testAuthCfg.ResetCodeTTL).Return(nil).Once()
	mockMailer.On("Send", "amaka@example.com", mock.Anything, mock.MatchedBy(func(body string) bool {
		return savedCode != "" && strings.Contains(body, savedCode)
	})).Return(nil).Once()

	err := svc.RequestPasswordReset(context.Background(), "Amaka@Example.com")

	assert.NoError(t, err)
	mockResets.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
}

func TestSellerService_RequestPasswordReset_UnknownEmailSilent(t *testing.T) {
	mockSellers := new(MockSellerRepository)
	mockResets := new(MockPasswordResetRepository)
	mockMailer := new(MockEmailSender)
	svc := newSellerService(mockSellers, mockResets, mockMailer)

	mockSellers.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound).Once()

	err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")

	assert.NoError(t, err)
	mockResets.AssertNotCalled(t, "SaveCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockMailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestSellerService_VerifyResetCode_SwapsCodeForToken(t *testing.T) {
	mockResets := new(MockPasswordResetRepository)
	svc := newSellerService(new(MockSellerRepository), mockResets, new(MockEmailSender))

	mockResets.On("GetCode", mock.Anything, "amaka@example.com").Return("123456", nil).Once()
	mockResets.On("DeleteCode", mock.Anything, "amaka@example.com").Return(nil).Once()
	mockResets.On("SaveResetToken", mock.Anything, mock.AnythingOfType("string"), "amaka@example.com", testAuthCfg.ResetTokenTTL).Return(nil).Once()

	token, err := svc.VerifyResetCode(context.Background(), "amaka@example.com", "123456")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	mockResets.AssertExpectations(t)
}

func TestSellerService_VerifyResetCode_WrongCode(t *testing.T) {
	mockResets := new(MockPasswordResetRepository)
	svc := newSellerService(new(MockSellerRepository), mockResets, new(MockEmailSender))

	mockResets.On("GetCode", mock.Anything, "amaka@example.com").Return("123456", nil).Once()

	_, err := svc.VerifyResetCode(context.Background(), "amaka@example.com", "999999")

	assert.ErrorIs(t, err, ErrInvalidResetCode)
	// The stored code stays usable after a wrong guess.
	mockResets.AssertNotCalled(t, "DeleteCode", mock.Anything, mock.Anything)
}

func TestSellerService_ResetPassword_Success(t *testing.T) {
	mockSellers := new(MockSellerRepository)
	mockResets := new(MockPasswordResetRepository)
	svc := newSellerService(mockSellers, mockResets, new(MockEmailSender))

	seller := &entity.Seller{ID: "seller1", Email: "amaka@example.com", PasswordHash: "old"}

	mockResets.On("GetResetToken", mock.Anything, "token1").Return("amaka@example.com", nil).Once()
	mockSellers.On("GetByEmail", mock.Anything, "amaka@example.com").Return(seller, nil).Once()
	mockSellers.On("Update", mock.Anything, mock.MatchedBy(func(s *entity.Seller) bool {
		return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte("newsecret")) == nil
	})).Return(nil).Once()
	mockResets.On("DeleteResetToken", mock.Anything, "token1").Return(nil).Once()

	err := svc.ResetPassword(context.Background(), "token1", "newsecret")

	assert.NoError(t, err)
	mockSellers.AssertExpectations(t)
}

func TestSellerService_ResetPassword_ExpiredToken(t *testing.T) {
	mockResets := new(MockPasswordResetRepository)
	svc := newSellerService(new(MockSellerRepository), mockResets, new(MockEmailSender))

	mockResets.On("GetResetToken", mock.Anything, "stale").Return("", repository.ErrNotFound).Once()

	err := svc.ResetPassword(context.Background(), "stale", "newsecret")

	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func pngPayload() entity.ImagePayload {
	data := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	return entity.ImagePayload{Filename: "me.png", Content: base64.StdEncoding.EncodeToString(data)}
}

func TestSellerService_UpdateProfilePicture_Success(t *testing.T) {
	mockSellers := new(MockSellerRepository)
	mockStorage := new(MockImageStorage)
	svc := newSellerServiceWithStorage(mockSellers, mockStorage)

	seller := &entity.Seller{ID: "seller1", BusinessName: "Amaka Stores", IsActive: true}

	mockSellers.On("GetByID", mock.Anything, "seller1").Return(seller, nil).Once()
	mockStorage.On("Upload", mock.Anything, "profiles", "me.png", mock.Anything).
		Return("http://cdn/profiles/abc.png", "profiles/abc.png", nil).Once()
	mockSellers.On("Update", mock.Anything, mock.MatchedBy(func(s *entity.Seller) bool {
		return s.ProfilePictureURL == "http://cdn/profiles/abc.png"
	})).Return(nil).Once()

	updated, err := svc.UpdateProfilePicture(context.Background(), "seller1", pngPayload())

	assert.NoError(t, err)
	assert.Equal(t, "http://cdn/profiles/abc.png", updated.ProfilePictureURL)
	mockSellers.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestSellerService_UpdateProfilePicture_RejectsNonImage(t *testing.T) {
	mockStorage := new(MockImageStorage)
	svc := newSellerServiceWithStorage(new(MockSellerRepository), mockStorage)

	payload := entity.ImagePayload{
		Filename: "notes.txt",
		Content:  base64.StdEncoding.EncodeToString([]byte("just some text")),
	}

	_, err := svc.UpdateProfilePicture(context.Background(), "seller1", payload)

	assert.ErrorIs(t, err, ErrInvalidImage)
	mockStorage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSellerService_UpdateProfilePicture_RejectsOversizedImage(t *testing.T) {
	mockStorage := new(MockImageStorage)
	svc := newSellerServiceWithStorage(new(MockSellerRepository), mockStorage)

	data := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, maxProfilePhotoSize)...)
	payload := entity.ImagePayload{
		Filename: "huge.png",
		Content:  base64.StdEncoding.EncodeToString(data),
	}

	_, err := svc.UpdateProfilePicture(context.Background(), "seller1", payload)

	assert.ErrorIs(t, err, ErrImageTooLarge)
	mockStorage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSellerService_RemoveProfilePicture(t *testing.T) {
	mockSellers := new(MockSellerRepository)
	svc := newSellerServiceWithStorage(mockSellers, new(MockImageStorage))

	seller := &entity.Seller{ID: "seller1", ProfilePictureURL: "http://cdn/profiles/abc.png"}

	mockSellers.On("GetByID", mock.Anything, "seller1").Return(seller, nil).Once()
	mockSellers.On("Update", mock.Anything, mock.MatchedBy(func(s *entity.Seller) bool {
		return s.ProfilePictureURL == ""
	})).Return(nil).Once()

	err := svc.RemoveProfilePicture(context.Background(), "seller1")

	assert.NoError(t, err)
	mockSellers.AssertExpectations(t)
}

func TestSellerService_LookupByWhatsapp_NormalizesNumber(t *testing.T) {
	mockSellers := new(MockSellerRepository)
	svc := newSellerService(mockSellers, new(MockPasswordResetRepository), new(MockEmailSender))

	seller := &entity.Seller{ID: "seller1", Slug: "amaka-stores", WhatsappNumber: "08012345678", IsActive: true}

	mockSellers.On("GetByWhatsappNumber", mock.Anything, "08012345678").Return(seller, nil).Once()

	got, err := svc.LookupByWhatsapp(context.Background(), "+234 801-234-5678")

	assert.NoError(t, err)
	assert.Equal(t, "amaka-stores", got.Slug)
	mockSellers.AssertExpectations(t)
}

func TestSellerService_LookupByWhatsapp_SuffixFallback(t *testing.T) {
	mockSellers := new(MockSellerRepository)
	svc := newSellerService(mockSellers, new(MockPasswordResetRepository), new(MockEmailSender))

	seller := &entity.Seller{ID: "seller1", WhatsappNumber: "2348012345678", IsActive: true}

	mockSellers.On("GetByWhatsappNumber", mock.Anything, "08012345678").Return(nil, repository.ErrNotFound).Once()
	mockSellers.On("GetByWhatsappSuffix", mock.Anything, "8012345678").Return(seller, nil).Once()

	got, err := svc.LookupByWhatsapp(context.Background(), "234-8012345678")

	assert.NoError(t, err)
	assert.Equal(t, "seller1", got.ID)
	mockSellers.AssertExpectations(t)
}

func TestSellerService_LookupByWhatsapp_InactiveSellerHidden(t *testing.T) {
	mockSellers := new(MockSellerRepository)
	svc := newSellerService(mockSellers, new(MockPasswordResetRepository), new(MockEmailSender))

	seller := &entity.Seller{ID: "seller1", WhatsappNumber: "08012345678", IsActive: false}

	mockSellers.On("GetByWhatsappNumber", mock.Anything, "08012345678").Return(seller, nil).Once()

	_, err := svc.LookupByWhatsapp(context.Background(), "08012345678")

	assert.ErrorIs(t, err, ErrSellerNotFound)
}

func TestSellerService_LookupByWhatsapp_UnknownNumber(t *testing.T) {
	mockSellers := new(MockSellerRepository)
	svc := newSellerService(mockSellers, new(MockPasswordResetRepository), new(MockEmailSender))

	mockSellers.On("GetByWhatsappNumber", mock.Anything, "08099999999").Return(nil, repository.ErrNotFound).Once()
	mockSellers.On("GetByWhatsappSuffix", mock.Anything, "8099999999").Return(nil, repository.ErrNotFound).Once()

	_, err := svc.LookupByWhatsapp(context.Background(), "0809 999 9999")

	assert.ErrorIs(t, err, ErrSellerNotFound)
}
