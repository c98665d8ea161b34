package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "US"

func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	// Formatted whenever it parses, valid or not.
	parsedNumber, err := phonenumbers.Parse(phone, defaultRegion)
	if err != nil {
		return phone
	}
	return phonenumbers.Format(parsedNumber, phonenumbers.E164)
}
