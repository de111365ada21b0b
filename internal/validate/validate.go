package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ     = regexp.MustCompile(`^[A-Za-z0-9 _'\\-]{1,50}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	// Nigerian numbers: 0803..., +234803..., 234803...
	rePhone = regexp.MustCompile(`^(\+?234|0)[789][01][0-9]{8}$`)
	reCode  = regexp.MustCompile(`^[A-Za-z0-9_-]{3,32}$`)
)

// The 36 states plus the Federal Capital Territory.
var states = []string{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa", "Benue", "Borno",
	"Cross River", "Delta", "Ebonyi", "Edo", "Ekiti", "Enugu", "FCT", "Gombe", "Imo",
	"Jigawa", "Kaduna", "Kano", "Katsina", "Kebbi", "Kogi", "Kwara", "Lagos", "Nasarawa",
	"Niger", "Ogun", "Ondo", "Osun", "Oyo", "Plateau", "Rivers", "Sokoto", "Taraba",
	"Yobe", "Zamfara",
}

// State returns the canonical spelling of a Nigerian state.
func State(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "Abuja") {
		return "FCT", true
	}
	for _, st := range states {
		if strings.EqualFold(st, s) {
			return st, true
		}
	}
	return "", false
}

func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func Phone(s string) (string, bool) {
	s = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
	return s, rePhone.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// Qty parses a positive quantity. Anything above 1000 is rejected rather than clamped.
func Qty(n int) bool {
	return n >= 1 && n <= 1000
}

func Int(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// ID validates a simple resource identifier (product/order/method ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Code(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, reCode.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, true
}

// Password enforces length plus a mix of character classes.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 72 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// Address mirrors the delivery address fields so callers can convert to it directly.
type Address struct {
	FullName, Phone, Street, City, State, Country, PostalCode string
}

// Check returns the normalised address and per-field problems keyed by prefix.field.
func (a Address) Check(prefix string) (Address, map[string]string) {
	errs := map[string]string{}
	var ok bool
	if a.FullName, ok = Name(a.FullName); !ok {
		errs[prefix+".fullName"] = "full name is required"
	}
	if a.Phone, ok = Phone(a.Phone); !ok {
		errs[prefix+".phone"] = "a valid Nigerian phone number is required"
	}
	a.Street = strings.TrimSpace(a.Street)
	if a.Street == "" || len(a.Street) > 200 {
		errs[prefix+".street"] = "street is required"
	}
	if a.City, ok = Name(a.City); !ok {
		errs[prefix+".city"] = "city is required"
	}
	if a.State, ok = State(a.State); !ok {
		errs[prefix+".state"] = "unknown state"
	}
	a.Country = strings.TrimSpace(a.Country)
	if a.Country == "" {
		a.Country = "Nigeria"
	}
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	return a, errs
}
