package utils

import "regexp"

const minPasswordLength = 8

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func IsValidPassword(password string) bool {
	return len(password) >= minPasswordLength
}

// IsValidGameUID accepts Free Fire UIDs: 6-12 digits.
var gameUIDRegex = regexp.MustCompile(`^[0-9]{6,12}$`)

func IsValidGameUID(uid string) bool {
	return gameUIDRegex.MatchString(uid)
}
