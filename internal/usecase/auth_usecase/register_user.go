package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

type RegisterUserInput struct {
	Email       string
	Password    string
	Name        string
	UserType    string
	CompanyName string
	Mobile      string
	Address     string
}

type RegisterUserOutput struct {
	User    model.User    `json:"user"`
	Profile model.Profile `json:"profile"`
}

var (
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrWeakPassword       = errors.New("weak password")
	ErrInvalidUserType    = errors.New("invalid user type")

	ErrEmailAlreadyExists = errors.New("email already exists")
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// RegisterUserUsecase creates the user, its profile and its cart in one
// explicit workflow. Nothing here happens via persistence hooks.
type RegisterUserUsecase struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	cartRepo    repository.CartRepository
	hasher      PasswordHasher
	clock       Clock
}

func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	cartRepo repository.CartRepository,
	hasher PasswordHasher,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		cartRepo:    cartRepo,
		hasher:      hasher,
		clock:       clock,
	}
}

func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	email := strings.TrimSpace(strings.ToLower(in.Email))
	if !isValidEmailFormat(email) {
		return out, ErrInvalidEmailFormat
	}

	if len(in.Password) < 12 {
		return out, ErrPasswordTooShort
	}
	if isWeakPassword(in.Password) {
		return out, ErrWeakPassword
	}

	userType := model.UserTypeCustomer
	role := model.RoleUser
	switch strings.ToLower(strings.TrimSpace(in.UserType)) {
	case "", string(model.UserTypeCustomer):
	case string(model.UserTypeSeller):
		userType = model.UserTypeSeller
		role = model.RoleSeller
	default:
		return out, ErrInvalidUserType
	}

	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return out, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return out, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
		Role:         role,
		TokenVersion: 0,
		IsActive:     true,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return out, err
	}

	profile := &model.Profile{
		UserID:      user.ID,
		UserType:    userType,
		CompanyName: strings.TrimSpace(in.CompanyName),
		Mobile:      strings.TrimSpace(in.Mobile),
		Address:     strings.TrimSpace(in.Address),
	}
	if err := u.profileRepo.Create(ctx, profile); err != nil {
		return out, err
	}

	// Every account gets a cart up front so cart endpoints never have to
	// special-case a missing one.
	if _, err := u.cartRepo.GetOrCreateByUserID(ctx, user.ID); err != nil {
		return out, err
	}

	safeUser := *user
	safeUser.PasswordHash = ""

	out.User = safeUser
	out.Profile = *profile
	return out, nil
}

func isValidEmailFormat(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password":     {},
		"password123":  {},
		"123456789012": {},
		"1234567890":   {},
		"12345678":     {},
		"qwerty":       {},
		"qwertyuiop":   {},
		"letmein":      {},
		"admin":        {},
		"admin123":     {},
	}

	_, ok := weak[normalized]
	return ok
}

type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

type BcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}
