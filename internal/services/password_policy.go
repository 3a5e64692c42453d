package services

// MinPasswordLength is the floor for any user-chosen password.
const MinPasswordLength = 6

func ValidatePasswordLength(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
