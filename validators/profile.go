package validators

import (
	"errors"
	"slices"
	"time"
	"unicode"
)

// Country calling codes the signup form offers. Anything else is rejected
var validCountryCodes = []string{
	"+1", "+7", "+20", "+27", "+30", "+31", "+32", "+33", "+34", "+39",
	"+40", "+44", "+46", "+48", "+49", "+52", "+55", "+61", "+62", "+63",
	"+65", "+66", "+81", "+82", "+84", "+86", "+90", "+91", "+92", "+234",
	"+254", "+351", "+353", "+358", "+420", "+971",
}

const minSignupAge = 13

var (
	ErrNameEmpty          = errors.New("first and last name can't be empty")
	ErrNameTooLong        = errors.New("name is too long")
	ErrCountryCodeInvalid = errors.New("invalid country calling code provided")
	ErrPhoneInvalid       = errors.New("phone number must be 10 to 15 digits")
	ErrDOBInvalid         = errors.New("invalid date of birth provided")
	ErrTooYoung           = errors.New("you must be at least 13 years old to register")
)

func NameValidator(first, last string) error {
	if first == "" || last == "" {
		return ErrNameEmpty
	}

	if len(first) > 100 || len(last) > 100 {
		return ErrNameTooLong
	}

	return nil
}

func CountryCodeValidator(cc string) error {
	if !slices.Contains(validCountryCodes, cc) {
		return ErrCountryCodeInvalid
	}

	return nil
}

func PhoneValidator(p string) error {
	if len(p) < 10 || len(p) > 15 {
		return ErrPhoneInvalid
	}

	for _, r := range p {
		if !unicode.IsDigit(r) {
			return ErrPhoneInvalid
		}
	}

	return nil
}

// DOBValidator parses a YYYY-MM-DD date of birth and checks the
// registrant is old enough
func DOBValidator(dob string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return time.Time{}, ErrDOBInvalid
	}

	if t.After(time.Now()) {
		return time.Time{}, ErrDOBInvalid
	}

	if t.After(time.Now().AddDate(-minSignupAge, 0, 0)) {
		return time.Time{}, ErrTooYoung
	}

	return t, nil
}
