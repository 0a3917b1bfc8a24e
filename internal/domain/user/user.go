package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrNotFound            = errors.New("user: not found")
	ErrNameRequired        = errors.New("user: name is required")
	ErrInvalidEmail        = errors.New("user: invalid email format")
	ErrInvalidPhone        = errors.New("user: invalid phone number")
	ErrInvalidNationalID   = errors.New("user: invalid national id number")
	ErrInvalidTaxID        = errors.New("user: invalid tax id number")
	ErrInvalidRole         = errors.New("user: role must be renter or owner")
	ErrPasswordHashMissing = errors.New("user: password hash is required")
	ErrEmailTaken          = errors.New("user: email already registered")
	ErrPhoneTaken          = errors.New("user: phone number already registered")
	ErrNationalIDTaken     = errors.New("user: national id already registered")
	ErrTaxIDTaken          = errors.New("user: tax id already registered")
)

type ID int64

type Role string

const (
	RoleRenter Role = "renter"
	RoleOwner  Role = "owner"
)

func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleRenter:
		return RoleRenter, nil
	case RoleOwner:
		return RoleOwner, nil
	default:
		return "", ErrInvalidRole
	}
}

var (
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern      = regexp.MustCompile(`^[+]?[0-9]{10,15}$`)
	nationalIDPattern = regexp.MustCompile(`^[0-9]{12}$`)
	taxIDPattern      = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

type User struct {
	ID           ID
	Name         string
	Email        string
	Phone        string
	NationalID   string
	TaxID        string
	PasswordHash string
	Role         Role
	Verified     bool
	CreatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	// ByLogin matches either the email or the phone number.
	ByLogin(ctx context.Context, login string) (*User, error)
	// Save persists the user, enforcing uniqueness of email, phone,
	// national id and tax id. Assigns the id on first save.
	Save(ctx context.Context, u *User) error
}

type CreateParams struct {
	Name         string
	Email        string
	Phone        string
	NationalID   string
	TaxID        string
	PasswordHash string
	Role         Role
	Now          time.Time
}

func NewUser(params CreateParams) (*User, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	phone := NormalizePhone(params.Phone)
	if !phonePattern.MatchString(phone) {
		return nil, ErrInvalidPhone
	}
	nationalID := NormalizeNationalID(params.NationalID)
	if !nationalIDPattern.MatchString(nationalID) {
		return nil, ErrInvalidNationalID
	}
	taxID := strings.ToUpper(strings.TrimSpace(params.TaxID))
	if !taxIDPattern.MatchString(taxID) {
		return nil, ErrInvalidTaxID
	}
	if strings.TrimSpace(params.PasswordHash) == "" {
		return nil, ErrPasswordHashMissing
	}
	if params.Role != RoleRenter && params.Role != RoleOwner {
		return nil, ErrInvalidRole
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		NationalID:   nationalID,
		TaxID:        taxID,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		CreatedAt:    now.UTC(),
	}, nil
}

func NormalizePhone(phone string) string {
	phone = strings.ReplaceAll(phone, " ", "")
	return strings.ReplaceAll(phone, "-", "")
}

func NormalizeNationalID(id string) string {
	id = strings.ReplaceAll(id, " ", "")
	return strings.ReplaceAll(id, "-", "")
}
