package validator

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	minEmailLength    = 3
	maxEmailLength    = 255
	minPasswordLength = 8
	maxPasswordLength = 72

	errUsernameEmptyFmt     = "username cannot be empty"
	errUsernameLengthFmt    = "username must be between %d and %d characters"
	errUsernameInvalidFmt   = "username may only contain letters, digits, '.', '_' and '-'"
	errEmailEmptyFmt        = "email cannot be empty"
	errEmailLengthFmt       = "email must be between %d and %d characters"
	errEmailInvalidFmt      = "invalid email format"
	errPasswordMinLengthFmt = "password must be at least %d characters"
	errPasswordMaxLengthFmt = "password must not exceed %d characters"
	errRoleNameEmptyFmt     = "role cannot be blank"
	errUserIDInvalidFmt     = "user id must be a positive integer"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

func Username(username string) error {
	if username == "" {
		return fmt.Errorf(errUsernameEmptyFmt)
	}

	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return fmt.Errorf(errUsernameLengthFmt, minUsernameLength, maxUsernameLength)
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf(errUsernameInvalidFmt)
	}

	return nil
}

func Email(email string) error {
	if email == "" {
		return fmt.Errorf(errEmailEmptyFmt)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf(errEmailInvalidFmt)
	}

	return nil
}

// Password bounds the length only. bcrypt ignores input past 72 bytes.
func Password(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf(errPasswordMinLengthFmt, minPasswordLength)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	}

	return nil
}

// RoleName only rejects a missing role. Any other value, however long,
// is left to the role model to resolve or refuse.
func RoleName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf(errRoleNameEmptyFmt)
	}

	return nil
}

func UserID(id int64) error {
	if id <= 0 {
		return fmt.Errorf(errUserIDInvalidFmt)
	}
	return nil
}
