package contact

import "strings"

// PhoneDigits is the length of a Brazilian mobile number with area code.
const PhoneDigits = 11

func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func IsCompletePhone(s string) bool {
	return len(Digits(s)) == PhoneDigits
}

// FormatPhone masks the input as "(DD) D DDDD-DDDD" while it is typed.
// Partial input is formatted partially and extra digits are dropped.
func FormatPhone(s string) string {
	d := Digits(s)
	if len(d) > PhoneDigits {
		d = d[:PhoneDigits]
	}

	switch {
	case len(d) == 0:
		return ""
	case len(d) <= 2:
		return "(" + d
	case len(d) <= 3:
		return "(" + d[:2] + ") " + d[2:]
	case len(d) <= 7:
		return "(" + d[:2] + ") " + d[2:3] + " " + d[3:]
	default:
		return "(" + d[:2] + ") " + d[2:3] + " " + d[3:7] + "-" + d[7:]
	}
}
