package user

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/text"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,30}$`)

// MinPasswordLength is the minimum length of a plain-text password.
const MinPasswordLength = 8

// User is an account. Password holds the bcrypt hash and is never rendered.
type User struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Password    string   `json:"password,omitempty"`
	Bio         string   `json:"bio"`
	Avatar      string   `json:"avatar"`
	CreatedAt   int64    `json:"createdAt"`
	Recipes     []string `json:"recipes"`
	Reviews     []string `json:"reviews"`
	Collections []string `json:"collections"`
	Images      []string `json:"images"`
}

// Registration holds the fields accepted at sign-up.
type Registration struct {
	Name     string
	Username string
	Email    string
	Password string
}

// Patch is a partial profile update. Nil fields are unchanged.
// Password is plain text; the caller hashes it.
type Patch struct {
	Name     *string
	Username *string
	Email    *string
	Bio      *string
	Avatar   *string
	Password *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Username == nil && p.Email == nil &&
		p.Bio == nil && p.Avatar == nil && p.Password == nil
}

// ValidateRegistration checks sign-up input.
func ValidateRegistration(r Registration) error {
	if strings.TrimSpace(r.Name) == "" {
		return domain.NewValidation("name is required")
	}
	if err := validateUsername(r.Username); err != nil {
		return err
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return ValidatePassword(r.Password)
}

// ValidatePassword checks a plain-text password.
func ValidatePassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return domain.NewValidation("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// New creates a user from validated registration input and a password hash.
func New(r Registration, passwordHash string) User {
	return User{
		ID:          uuid.NewString(),
		Name:        text.PlainText(r.Name),
		Username:    r.Username,
		Email:       NormalizeEmail(r.Email),
		Password:    passwordHash,
		CreatedAt:   time.Now().UnixMilli(),
		Recipes:     []string{},
		Reviews:     []string{},
		Collections: []string{},
		Images:      []string{},
	}
}

// Apply validates p and returns the updated user. Password is left to the caller.
func (u User) Apply(p Patch) (User, error) {
	if p.Name != nil {
		name := text.PlainText(*p.Name)
		if name == "" {
			return User{}, domain.NewValidation("name is required")
		}
		u.Name = name
	}
	if p.Username != nil {
		if err := validateUsername(*p.Username); err != nil {
			return User{}, err
		}
		u.Username = *p.Username
	}
	if p.Email != nil {
		if err := validateEmail(*p.Email); err != nil {
			return User{}, err
		}
		u.Email = NormalizeEmail(*p.Email)
	}
	if p.Bio != nil {
		u.Bio = text.PlainText(*p.Bio)
	}
	if p.Avatar != nil {
		u.Avatar = strings.TrimSpace(*p.Avatar)
	}
	if p.Password != nil {
		if err := ValidatePassword(*p.Password); err != nil {
			return User{}, err
		}
	}
	return u, nil
}

// Public returns a copy safe to render: no password hash.
func (u User) Public() User {
	u.Password = ""
	return u
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return domain.NewValidation("username must be 3-30 letters, digits, '_', '.' or '-'")
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Name != "" {
		return domain.NewValidation("email is invalid")
	}
	return nil
}
