package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schematics-backend/apperrors"
)

func validInput() RegistrationInput {
	return RegistrationInput{
		FirstName:       "John",
		LastName:        "Doe",
		Email:           "john.doe@example.com",
		Password:        "SecurePass123!",
		ConfirmPassword: "SecurePass123!",
	}
}

func TestValidateRequired(t *testing.T) {
	assert.Equal(t, "Test Field is required", ValidateRequired("test_field", ""))
	assert.Equal(t, "Test Field is required", ValidateRequired("test_field", "   "))
	assert.Empty(t, ValidateRequired("test_field", "value"))
}

func TestValidateEmail(t *testing.T) {
	for _, email := range []string{
		"user@example.com",
		"john.doe@example.co.uk",
		"test+tag@domain.org",
		"user123@test-domain.com",
	} {
		assert.Empty(t, ValidateEmail(email), email)
	}

	for _, email := range []string{
		"invalid",
		"@example.com",
		"user@",
		"user @example.com",
		"user@example",
		"",
	} {
		assert.NotEmpty(t, ValidateEmail(email), email)
	}

	long := strings.Repeat("a", 250) + "@example.com"
	assert.Equal(t, "Email address is too long", ValidateEmail(long))
}

func TestValidatePassword(t *testing.T) {
	for _, password := range []string{"SecurePass123!", "MyP@ssw0rd", "Test1234!@#$", "Abcdef1@"} {
		assert.Empty(t, ValidatePassword(password), password)
	}

	tests := []struct {
		name     string
		password string
	}{
		{"too short", "Pass1!"},
		{"no uppercase", "password123!"},
		{"no lowercase", "PASSWORD123!"},
		{"no digit", "Password!"},
		{"no special", "Password123"},
		{"disallowed character", "Password 123!"},
		{"too long", "A1!" + strings.Repeat("a", 130)},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, ValidatePassword(tt.password))
		})
	}

	assert.Equal(t, "Password must be at least 8 characters long", ValidatePassword("Pass1!"))
	assert.Equal(t, "Password is too long (max 128 characters)", ValidatePassword("A1!"+strings.Repeat("a", 130)))
}

func TestValidatePasswordMatch(t *testing.T) {
	assert.Empty(t, ValidatePasswordMatch("SecurePass123!", "SecurePass123!"))
	assert.Equal(t, "Passwords do not match", ValidatePasswordMatch("Password1!", "Password2!"))
	assert.Equal(t, "Confirm Password is required", ValidatePasswordMatch("Password1!", ""))
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"John", "Mary-Jane", "O'Connor", "Jean Paul"} {
		assert.Empty(t, ValidateName(FieldFirstName, name), name)
	}

	assert.Equal(t, "First Name must be at least 2 characters", ValidateName(FieldFirstName, "A"))
	assert.Equal(t, "Last Name is too long (max 50 characters)", ValidateName(FieldLastName, strings.Repeat("A", 51)))
	for _, name := range []string{"John123", "Mary@Smith", "Test#Name"} {
		assert.Equal(t, "First Name can only contain letters, spaces, hyphens, and apostrophes",
			ValidateName(FieldFirstName, name), name)
	}
}

func TestValidateRegistration(t *testing.T) {
	assert.Empty(t, ValidateRegistration(validInput()))

	errs := ValidateRegistration(RegistrationInput{})
	assert.Len(t, errs, 5)

	in := validInput()
	in.Email = "invalid-email"
	assert.Contains(t, ValidateRegistration(in), FieldEmail)

	in = validInput()
	in.Password, in.ConfirmPassword = "weak", "weak"
	assert.Contains(t, ValidateRegistration(in), FieldPassword)

	in = validInput()
	in.ConfirmPassword = "DifferentPass123!"
	errs = ValidateRegistration(in)
	require.Len(t, errs, 1)
	assert.Equal(t, "Passwords do not match", errs[FieldConfirmPassword])
}

func TestValidateRegistrationField(t *testing.T) {
	msg, err := ValidateRegistrationField(FieldEmail, "john@example.com")
	require.NoError(t, err)
	assert.Empty(t, msg)

	msg, err = ValidateRegistrationField(FieldLastName, "D")
	require.NoError(t, err)
	assert.Equal(t, "Last Name must be at least 2 characters", msg)

	_, err = ValidateRegistrationField("age", "12")
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "HelloWorld Test", Sanitize("Hello\x00World\x1F  Test  "))
	assert.Equal(t, "", Sanitize(""))
	assert.Equal(t, "a b", Sanitize("\ta\n\n b\x7F"))
}

func TestRegistrationInputSanitized(t *testing.T) {
	in := RegistrationInput{
		FirstName:       "  John\x00 ",
		Email:           " john@example.com\n",
		Password:        " Pass word ",
		ConfirmPassword: " Pass word ",
	}
	out := in.Sanitized()
	assert.Equal(t, "John", out.FirstName)
	assert.Equal(t, "john@example.com", out.Email)
	assert.Equal(t, " Pass word ", out.Password)
	assert.Equal(t, " Pass word ", out.ConfirmPassword)
}

func TestLengthsCountCharacters(t *testing.T) {
	// 248 characters, 490 bytes
	email := strings.Repeat("é", 242) + "@例え.jp"
	assert.Empty(t, ValidateEmail(email))
	assert.Equal(t, "Email address is too long", ValidateEmail(strings.Repeat("é", 250)+"@例え.jp"))

	// 7 characters, 9 bytes
	assert.Equal(t, "Password must be at least 8 characters long", ValidatePassword("Äb1!Äb1"))
}
