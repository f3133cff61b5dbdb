package contact

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrNameRequired   = errors.New("Informe seu nome completo")
	ErrNameCharacters = errors.New("Use apenas letras e espaços.")
	ErrNameIncomplete = errors.New("É necessário que seja preenchido seu nome completo")
	ErrEmailRequired  = errors.New("Informe seu e-mail")
	ErrEmailInvalid   = errors.New("Informe um e-mail válido")
	ErrPhoneInvalid   = errors.New("Informe um WhatsApp válido com DDD")
	ErrConsentMissing = errors.New("É necessário aceitar o termo de consentimento")
)

var (
	spaces     = regexp.MustCompile(`\s+`)
	nonLetters = regexp.MustCompile(`[^\p{L}\s]`)
	emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NormalizeName collapses runs of whitespace and trims the result.
func NormalizeName(name string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(name, " "))
}

// ValidateName checks characters before the token count, so "Maria123"
// reports the character rule even though it is also a single token.
func ValidateName(name string) error {
	n := NormalizeName(name)
	if n == "" {
		return ErrNameRequired
	}
	if nonLetters.MatchString(n) {
		return ErrNameCharacters
	}
	if len(strings.Split(n, " ")) < 2 {
		return ErrNameIncomplete
	}
	return nil
}

func ValidateEmail(email string, required bool) error {
	e := strings.TrimSpace(email)
	if e == "" {
		if required {
			return ErrEmailRequired
		}
		return nil
	}
	if !emailShape.MatchString(e) {
		return ErrEmailInvalid
	}
	return nil
}

func ValidatePhone(phone string) error {
	if !IsCompletePhone(phone) {
		return ErrPhoneInvalid
	}
	return nil
}
