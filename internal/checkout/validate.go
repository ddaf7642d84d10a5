package checkout

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 ]*$`)
)

func validateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	return nil
}

// validatePhone accepts digits and spaces with an optional leading +,
// and requires at least ten digits.
func validatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return &ValidationError{Field: "phoneNumber", Reason: "only digits, spaces and a leading + are allowed"}
	}

	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 10 {
		return &ValidationError{Field: "phoneNumber", Reason: "must contain at least 10 digits"}
	}
	return nil
}

func validateDetails(d DeliveryDetails) error {
	if strings.TrimSpace(d.FullName) == "" {
		return &ValidationError{Field: "fullName", Reason: "is required"}
	}
	if err := validatePhone(d.PhoneNumber); err != nil {
		return err
	}
	if strings.TrimSpace(d.DeliveryAddress) == "" {
		return &ValidationError{Field: "deliveryAddress", Reason: "is required"}
	}
	return nil
}
