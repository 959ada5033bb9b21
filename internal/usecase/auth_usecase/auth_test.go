package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockProfileRepository struct{ mock.Mock }

func (m *MockProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

type MockCartRepository struct{ mock.Mock }

func (m *MockCartRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *MockCartRepository) SetCoupon(ctx context.Context, cartID int64, couponID *int64) error {
	args := m.Called(ctx, cartID, couponID)
	return args.Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type MockRefreshTokenRepository struct{ mock.Mock }

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	rt, _ := args.Get(0).(*model.RefreshToken)
	return rt, args.Error(1)
}

func (m *MockRefreshTokenRepository) MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	args := m.Called(ctx, tokenID, usedAt)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error {
	args := m.Called(ctx, tokenID, revokedAt)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteAllByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

type plainVerifier struct{}

func (plainVerifier) Verify(plain string, hashed string) bool { return "hashed:"+plain == hashed }

type stubIssuer struct{}

func (stubIssuer) Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	return "access-token", now.Add(15 * time.Minute), nil
}

type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() string {
	g.n++
	return "id-" + string(rune('0'+g.n))
}

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

const goodPassword = "correct-horse-battery"

func TestRegisterUser_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	profileRepo := new(MockProfileRepository)
	cartRepo := new(MockCartRepository)

	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, repository.ErrUserNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "alice@example.com" &&
			u.Name == "alice" &&
			u.Role == model.RoleUser &&
			u.IsActive &&
			u.TokenVersion == 0 &&
			u.PasswordHash == "hashed:"+goodPassword
	})).Return(nil)
	profileRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Profile) bool {
		return p.UserID == 1 && p.UserType == model.UserTypeCustomer
	})).Return(nil)
	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 9, UserID: 1}, nil)

	uc := NewRegisterUserUsecase(userRepo, profileRepo, cartRepo, plainHasher{}, &fixedClock{time.Now()})

	out, err := uc.Execute(context.Background(), RegisterUserInput{
		Email:    "  Alice@Example.COM ",
		Password: goodPassword,
	})

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", out.User.Email)
	assert.Empty(t, out.User.PasswordHash)

	userRepo.AssertExpectations(t)
	profileRepo.AssertExpectations(t)
	cartRepo.AssertExpectations(t)
}

func TestRegisterUser_SellerGetsSellerRole(t *testing.T) {
	userRepo := new(MockUserRepository)
	profileRepo := new(MockProfileRepository)
	cartRepo := new(MockCartRepository)

	userRepo.On("FindByEmail", mock.Anything, "shop@example.com").Return(nil, repository.ErrUserNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleSeller
	})).Return(nil)
	profileRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Profile) bool {
		return p.UserType == model.UserTypeSeller && p.CompanyName == "Acme"
	})).Return(nil)
	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 9, UserID: 1}, nil)

	uc := NewRegisterUserUsecase(userRepo, profileRepo, cartRepo, plainHasher{}, &fixedClock{time.Now()})

	_, err := uc.Execute(context.Background(), RegisterUserInput{
		Email:       "shop@example.com",
		Password:    goodPassword,
		UserType:    "seller",
		CompanyName: "Acme",
	})

	require.NoError(t, err)
	userRepo.AssertExpectations(t)
	profileRepo.AssertExpectations(t)
}

func TestRegisterUser_ValidationErrors(t *testing.T) {
	uc := NewRegisterUserUsecase(new(MockUserRepository), new(MockProfileRepository), new(MockCartRepository), plainHasher{}, &fixedClock{time.Now()})

	tests := []struct {
		name string
		in   RegisterUserInput
		want error
	}{
		{"bad email", RegisterUserInput{Email: "not-an-email", Password: goodPassword}, ErrInvalidEmailFormat},
		{"short password", RegisterUserInput{Email: "a@b.com", Password: "short"}, ErrPasswordTooShort},
		{"weak password", RegisterUserInput{Email: "a@b.com", Password: "123456789012"}, ErrWeakPassword},
		{"bad user type", RegisterUserInput{Email: "a@b.com", Password: goodPassword, UserType: "wholesaler"}, ErrInvalidUserType},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)

	userRepo.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{ID: 7, Email: "taken@example.com"}, nil)

	uc := NewRegisterUserUsecase(userRepo, new(MockProfileRepository), new(MockCartRepository), plainHasher{}, &fixedClock{time.Now()})

	_, err := uc.Execute(context.Background(), RegisterUserInput{Email: "taken@example.com", Password: goodPassword})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func newLoginUC(userRepo *MockUserRepository, rtRepo *MockRefreshTokenRepository, now time.Time) *LoginUsecase {
	return NewLoginUsecase(userRepo, rtRepo, plainVerifier{}, stubIssuer{}, &seqIDGen{}, &fixedClock{now}, 14*24*time.Hour)
}

func TestLogin_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	rtRepo := new(MockRefreshTokenRepository)
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: "hashed:" + goodPassword,
		Role:         model.RoleUser,
		TokenVersion: 3,
		IsActive:     true,
	}, nil)

	var stored *model.RefreshToken
	rtRepo.On("Create", mock.Anything, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		stored = rt
		return rt.UserID == 1 && rt.TokenHash != "" && rt.ExpiresAt.Equal(now.Add(14*24*time.Hour))
	})).Return(nil)

	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.LastLoginAt != nil && u.LastLoginAt.Equal(now)
	})).Return(nil)

	uc := newLoginUC(userRepo, rtRepo, now)

	out, side, err := uc.Execute(context.Background(), LoginInput{
		Email:     "alice@example.com",
		Password:  goodPassword,
		UserAgent: "test-agent",
	})

	require.NoError(t, err)
	assert.Equal(t, "access-token", out.Token.AccessToken)
	assert.Equal(t, int((15 * time.Minute).Seconds()), out.Token.ExpiresIn)
	assert.Equal(t, 3, out.Token.TokenVersion)
	assert.Empty(t, out.User.PasswordHash)

	// Only the hash of the plaintext is persisted.
	require.NotEmpty(t, side.PlainRefreshToken)
	require.NotNil(t, stored)
	sum := sha256.Sum256([]byte(side.PlainRefreshToken))
	assert.Equal(t, hex.EncodeToString(sum[:]), stored.TokenHash)

	userRepo.AssertExpectations(t)
	rtRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	rtRepo := new(MockRefreshTokenRepository)

	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: "hashed:" + goodPassword,
		IsActive:     true,
	}, nil)

	uc := newLoginUC(userRepo, rtRepo, time.Now())

	_, _, err := uc.Execute(context.Background(), LoginInput{Email: "alice@example.com", Password: "wrong"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	rtRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmail(t *testing.T) {
	userRepo := new(MockUserRepository)

	userRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

	uc := newLoginUC(userRepo, new(MockRefreshTokenRepository), time.Now())

	_, _, err := uc.Execute(context.Background(), LoginInput{Email: "ghost@example.com", Password: goodPassword})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	rtRepo := new(MockRefreshTokenRepository)

	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: "hashed:" + goodPassword,
		IsActive:     false,
	}, nil)

	uc := newLoginUC(userRepo, rtRepo, time.Now())

	_, _, err := uc.Execute(context.Background(), LoginInput{Email: "alice@example.com", Password: goodPassword})

	assert.ErrorIs(t, err, ErrUserInactive)
	rtRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogout_RevokesSessionsAndBumpsVersion(t *testing.T) {
	userRepo := new(MockUserRepository)
	rtRepo := new(MockRefreshTokenRepository)

	rtRepo.On("DeleteAllByUserID", mock.Anything, int64(1)).Return(nil)
	userRepo.On("IncrementTokenVersion", mock.Anything, int64(1)).Return(nil)

	err := Logout(context.Background(), userRepo, rtRepo, 1)

	require.NoError(t, err)
	userRepo.AssertExpectations(t)
	rtRepo.AssertExpectations(t)
}
