package request

import (
	"errors"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	dateLayout = "2006-01-02"

	// At least one digit, upper case letters, digits and dashes only.
	boothNumberPattern = `^(?=.*\d)[A-Z0-9-]{1,10}$`
	// Between 8 and 15 digits, optionally separated by spaces, dashes or parentheses.
	contactNumberPattern = `^(?=(?:\D*\d){8,15}\D*$)\+?[0-9 ()-]+$`
)

var (
	errInvalidBoothNumber   = errors.New("must be 1 to 10 upper case letters, digits or dashes and contain a digit")
	errInvalidContactNumber = errors.New("must be a phone number with 8 to 15 digits")

	boothNumberExp   = regexp2.MustCompile(boothNumberPattern, regexp2.None)
	contactNumberExp = regexp2.MustCompile(contactNumberPattern, regexp2.None)
)

func matches(exp *regexp2.Regexp, err error) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		ok, matchErr := exp.MatchString(s)
		if matchErr != nil || !ok {
			return err
		}
		return nil
	})
}
