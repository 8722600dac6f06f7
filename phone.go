package identity

import (
	"errors"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const phoneRegion = "BR"

var phonePattern = regexp.MustCompile(`^\((\d{2})\) (\d{4,5})-(\d{4})$`)

// validAreaCodes are the Brazilian DDD prefixes accepted for profile phones.
var validAreaCodes = map[string]struct{}{
	"11": {}, "12": {}, "13": {}, "14": {}, "15": {}, "16": {}, "17": {}, "18": {}, "19": {},
	"21": {}, "22": {}, "24": {}, "27": {}, "28": {},
	"31": {}, "32": {}, "33": {}, "34": {}, "35": {}, "37": {}, "38": {},
	"41": {}, "42": {}, "43": {}, "44": {}, "45": {}, "46": {}, "47": {}, "48": {}, "49": {},
	"51": {}, "53": {}, "54": {}, "55": {},
	"61": {}, "62": {}, "63": {}, "64": {}, "65": {}, "66": {}, "67": {}, "68": {}, "69": {},
	"71": {}, "73": {}, "74": {}, "75": {}, "77": {}, "79": {},
	"81": {}, "82": {}, "83": {}, "84": {}, "85": {}, "86": {}, "87": {}, "88": {}, "89": {},
	"91": {}, "92": {}, "93": {}, "94": {}, "95": {}, "96": {}, "97": {}, "98": {}, "99": {},
}

var (
	errPhoneFormat   = errors.New("must use the format (XX) XXXX-XXXX or (XX) XXXXX-XXXX")
	errPhoneAreaCode = errors.New("unknown area code")
	errPhoneNumber   = errors.New("is not a valid phone number")
)

// ValidatePhone checks a display formatted Brazilian phone number.
func ValidatePhone(phone string) error {
	m := phonePattern.FindStringSubmatch(strings.TrimSpace(phone))
	if m == nil {
		return errPhoneFormat
	}

	if _, ok := validAreaCodes[m[1]]; !ok {
		return errPhoneAreaCode
	}

	digits := m[1] + m[2] + m[3]
	if len(digits) != 10 && len(digits) != 11 {
		return errPhoneFormat
	}

	num, err := phonenumbers.Parse(digits, phoneRegion)
	if err != nil || !phonenumbers.IsValidNumberForRegion(num, phoneRegion) {
		return errPhoneNumber
	}
	return nil
}

// phoneRule adapts ValidatePhone to an ozzo rule. Empty values pass.
func phoneRule(value interface{}) error {
	var phone string
	switch v := value.(type) {
	case string:
		phone = v
	case *string:
		if v == nil {
			return nil
		}
		phone = *v
	default:
		return errPhoneFormat
	}
	if strings.TrimSpace(phone) == "" {
		return nil
	}
	return ValidatePhone(phone)
}
