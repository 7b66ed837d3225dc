package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/sitecrew/daily_report_app/internal/apperrors"
	"github.com/sitecrew/daily_report_app/internal/core/domain"
	portssvc "github.com/sitecrew/daily_report_app/internal/core/ports/services"
	"github.com/sitecrew/daily_report_app/internal/core/services"
	"github.com/sitecrew/daily_report_app/internal/dto"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string, updatedAt time.Time) error {
	args := m.Called(ctx, userID, passwordHash, updatedAt)
	return args.Error(0)
}

// --- Mock PasswordResetRepository ---
type MockPasswordResetRepository struct {
	mock.Mock
}

func (m *MockPasswordResetRepository) SaveReset(ctx context.Context, reset domain.PasswordReset) error {
	args := m.Called(ctx, reset)
	return args.Error(0)
}

func (m *MockPasswordResetRepository) FindActiveReset(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordReset, error) {
	args := m.Called(ctx, tokenHash, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PasswordReset), args.Error(1)
}

func (m *MockPasswordResetRepository) MarkUsed(ctx context.Context, tokenHash string, usedAt time.Time) error {
	args := m.Called(ctx, tokenHash, usedAt)
	return args.Error(0)
}

// --- Mock Mailer ---
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo  *MockUserRepository
	mockResetRepo *MockPasswordResetRepository
	mockMailer    *MockMailer
	service       portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockResetRepo = new(MockPasswordResetRepository)
	suite.mockMailer = new(MockMailer)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockResetRepo, suite.mockMailer, "https://reports.example.com")
}

// --- Register ---

func (suite *UserServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Email:    "Foreman@Example.COM",
		Password: "s3cret-pass",
		FullName: "Jamie van der Berg",
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		hashOK := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) == nil
		return u.Email == "foreman@example.com" &&
			u.FirstName == "Jamie" &&
			u.LastName == "van der Berg" &&
			u.AuthProvider == domain.ProviderLocal &&
			u.IsActive &&
			hashOK
	})).Return(nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal("foreman@example.com", user.Email)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegister_DuplicateEmail() {
	ctx := context.Background()
	req := dto.RegisterRequest{Email: "dup@example.com", Password: "s3cret-pass", FullName: "Dup"}

	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- Authenticate ---

func (suite *UserServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()
	password := "correct-horse"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "site@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "site@example.com").Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateLastLogin", ctx, user.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	got, err := suite.service.Authenticate(ctx, "Site@Example.com", password)

	suite.Require().NoError(err)
	suite.Require().NotNil(got)
	suite.NotNil(got.LastLoginAt)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	user := &domain.User{UserID: uuid.NewString(), Email: "site@example.com", PasswordHash: string(hash), IsActive: true}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "site@example.com").Return(user, nil).Once()

	got, err := suite.service.Authenticate(ctx, "site@example.com", "wrong")

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAuthenticate_DeactivatedAccount() {
	ctx := context.Background()
	password := "correct-horse"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &domain.User{UserID: uuid.NewString(), Email: "old@example.com", PasswordHash: string(hash), IsActive: false}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "old@example.com").Return(user, nil).Once()

	got, err := suite.service.Authenticate(ctx, "old@example.com", password)

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- FindOrCreateOAuthUser ---

func (suite *UserServiceTestSuite) TestFindOrCreateOAuthUser_CreatesOnFirstLogin() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "new@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "new@example.com" &&
			u.AuthProvider == domain.ProviderGoogle &&
			u.PasswordHash == "" &&
			u.IsActive
	})).Return(nil).Once()

	user, err := suite.service.FindOrCreateOAuthUser(ctx, "New@Example.com", "New", "User", domain.ProviderGoogle)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal(domain.ProviderGoogle, user.AuthProvider)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateOAuthUser_ReturnsExisting() {
	ctx := context.Background()
	existing := &domain.User{UserID: uuid.NewString(), Email: "known@example.com", AuthProvider: domain.ProviderGoogle, IsActive: true}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "known@example.com").Return(existing, nil).Once()
	suite.mockUserRepo.On("UpdateLastLogin", ctx, existing.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	user, err := suite.service.FindOrCreateOAuthUser(ctx, "known@example.com", "Known", "User", domain.ProviderGoogle)

	suite.Require().NoError(err)
	suite.Equal(existing.UserID, user.UserID)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

// --- Password reset ---

func (suite *UserServiceTestSuite) TestRequestPasswordReset_SendsMailWithToken() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), Email: "crew@example.com", IsActive: true}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "crew@example.com").Return(user, nil).Once()
	suite.mockResetRepo.On("SaveReset", ctx, mock.MatchedBy(func(r domain.PasswordReset) bool {
		return r.UserID == user.UserID && len(r.TokenHash) == 64 && r.ExpiresAt.After(time.Now())
	})).Return(nil).Once()
	suite.mockMailer.On("Send", "crew@example.com", "Password reset", mock.MatchedBy(func(body string) bool {
		return len(body) > 0
	})).Return(nil).Once()

	err := suite.service.RequestPasswordReset(ctx, "crew@example.com")

	suite.Require().NoError(err)
	suite.mockResetRepo.AssertExpectations(suite.T())
	suite.mockMailer.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRequestPasswordReset_UnknownEmailIsSilent() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.RequestPasswordReset(ctx, "ghost@example.com")

	suite.Require().NoError(err)
	suite.mockResetRepo.AssertNotCalled(suite.T(), "SaveReset", mock.Anything, mock.Anything)
	suite.mockMailer.AssertNotCalled(suite.T(), "Send", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestResetPassword_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	reset := &domain.PasswordReset{
		TokenHash: "abc123",
		UserID:    userID,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}

	suite.mockResetRepo.On("FindActiveReset", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(reset, nil).Once()
	suite.mockUserRepo.On("UpdatePassword", ctx, userID, mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-password-1")) == nil
	}), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockResetRepo.On("MarkUsed", ctx, reset.TokenHash, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.ResetPassword(ctx, "raw-token", "new-password-1")

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockResetRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestResetPassword_ExpiredOrUnknownToken() {
	ctx := context.Background()

	suite.mockResetRepo.On("FindActiveReset", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.ResetPassword(ctx, "stale-token", "new-password-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdatePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
