package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"schematics-backend/apperrors"
)

const (
	MaxEmailLength    = 254 // RFC 5321
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MinNameLength     = 2
	MaxNameLength     = 50

	// PasswordSpecialChars is the set a password must draw at least one special from.
	PasswordSpecialChars = "@$!%*?&#"
)

const (
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	namePattern    = regexp.MustCompile(`^[a-zA-Z '-]+$`)
	controlPattern = regexp.MustCompile(`[\x00-\x1F\x7F]`)
)

// RegistrationInput is the registration form payload.
type RegistrationInput struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Sanitized returns a copy with control characters stripped from the text
// fields. Passwords are left as typed.
func (in RegistrationInput) Sanitized() RegistrationInput {
	return RegistrationInput{
		FirstName:       Sanitize(in.FirstName),
		LastName:        Sanitize(in.LastName),
		Email:           Sanitize(in.Email),
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
	}
}

// FieldErrors maps a form field to its first validation message.
type FieldErrors map[string]string

// ValidateRegistration checks every field and returns the problems found.
// An empty result means the input is valid.
func ValidateRegistration(in RegistrationInput) FieldErrors {
	errs := FieldErrors{}
	check := func(field, msg string) {
		if msg != "" {
			errs[field] = msg
		}
	}

	check(FieldFirstName, ValidateName(FieldFirstName, in.FirstName))
	check(FieldLastName, ValidateName(FieldLastName, in.LastName))
	check(FieldEmail, ValidateEmail(in.Email))
	check(FieldPassword, ValidatePassword(in.Password))
	check(FieldConfirmPassword, ValidatePasswordMatch(in.Password, in.ConfirmPassword))

	return errs
}

// ValidateRegistrationField validates a single field for inline form checks.
// It returns the validation message ("" when valid), or an InvalidInput error
// for a field that has no single-value rule.
func ValidateRegistrationField(field, value string) (string, error) {
	switch field {
	case FieldEmail:
		return ValidateEmail(value), nil
	case FieldPassword:
		return ValidatePassword(value), nil
	case FieldFirstName, FieldLastName:
		return ValidateName(field, value), nil
	default:
		return "", apperrors.InvalidInput("Unknown field")
	}
}

// ValidateRequired rejects empty and whitespace-only values.
func ValidateRequired(field, value string) string {
	if strings.TrimSpace(value) == "" {
		return fieldLabel(field) + " is required"
	}
	return ""
}

// ValidateEmail checks the simplified RFC 5322 shape and length.
func ValidateEmail(email string) string {
	if msg := ValidateRequired(FieldEmail, email); msg != "" {
		return msg
	}
	if !emailPattern.MatchString(email) {
		return "Please enter a valid email address"
	}
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return "Email address is too long"
	}
	return ""
}

// ValidatePassword enforces length and character class requirements.
func ValidatePassword(password string) string {
	if msg := ValidateRequired(FieldPassword, password); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength)
	}
	if utf8.RuneCountInString(password) > MaxPasswordLength {
		return fmt.Sprintf("Password is too long (max %d characters)", MaxPasswordLength)
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			special = true
		default:
			return passwordRulesMessage
		}
	}
	if !lower || !upper || !digit || !special {
		return passwordRulesMessage
	}
	return ""
}

var passwordRulesMessage = "Password must contain at least one uppercase letter, " +
	"one lowercase letter, one digit, and one special character (" + PasswordSpecialChars + ")"

// ValidatePasswordMatch checks the confirmation field.
func ValidatePasswordMatch(password, confirm string) string {
	if msg := ValidateRequired(FieldConfirmPassword, confirm); msg != "" {
		return msg
	}
	if password != confirm {
		return "Passwords do not match"
	}
	return ""
}

// ValidateName checks first and last name fields.
func ValidateName(field, value string) string {
	if msg := ValidateRequired(field, value); msg != "" {
		return msg
	}
	label := fieldLabel(field)
	if utf8.RuneCountInString(strings.TrimSpace(value)) < MinNameLength {
		return fmt.Sprintf("%s must be at least %d characters", label, MinNameLength)
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		return fmt.Sprintf("%s is too long (max %d characters)", label, MaxNameLength)
	}
	if !namePattern.MatchString(value) {
		return label + " can only contain letters, spaces, hyphens, and apostrophes"
	}
	return ""
}

// Sanitize normalizes to NFC, removes control characters and collapses runs
// of whitespace.
func Sanitize(value string) string {
	if value == "" {
		return ""
	}
	sanitized := controlPattern.ReplaceAllString(norm.NFC.String(value), "")
	return strings.Join(strings.Fields(sanitized), " ")
}

// fieldLabel turns "first_name" into "First Name". Casers carry state, so
// one is built per call.
func fieldLabel(field string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(field, "_", " "))
}
