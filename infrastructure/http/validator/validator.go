package validator

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

func ValidateEmail(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

func ValidateRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

func ValidateUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}
