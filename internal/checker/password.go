package checker

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/khanhnv2901/cybertools/internal/shared/constants"
)

// PasswordPolicy describes the criteria a strong password must meet.
type PasswordPolicy struct {
	MinLength     int    `mapstructure:"min_length"`
	RequireUpper  bool   `mapstructure:"require_upper"`
	RequireLower  bool   `mapstructure:"require_lower"`
	RequireDigit  bool   `mapstructure:"require_digit"`
	RequireSymbol bool   `mapstructure:"require_symbol"`
	Symbols       string `mapstructure:"symbols"`
}

// DefaultPasswordPolicy requires eight characters and every character class.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:     constants.DefaultPasswordMinLength,
		RequireUpper:  true,
		RequireLower:  true,
		RequireDigit:  true,
		RequireSymbol: true,
		Symbols:       constants.DefaultPasswordSymbols,
	}
}

// PasswordResult is the verdict for one password.
type PasswordResult struct {
	Score    int      `json:"score"`
	MaxScore int      `json:"max_score"`
	Strong   bool     `json:"strong"`
	Feedback []string `json:"feedback,omitempty"`
}

// CheckPassword scores password against policy. Length is always scored; each
// enabled character class adds one more point. Feedback has one line per unmet criterion.
func CheckPassword(password string, policy PasswordPolicy) PasswordResult {
	result := PasswordResult{Feedback: []string{}}

	symbols := policy.Symbols
	if symbols == "" {
		symbols = constants.DefaultPasswordSymbols
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
		if strings.ContainsRune(symbols, r) {
			hasSymbol = true
		}
	}

	criteria := []struct {
		enabled  bool
		met      bool
		feedback string
	}{
		{true, utf8.RuneCountInString(password) >= policy.MinLength, fmt.Sprintf("Must be at least %d characters long.", policy.MinLength)},
		{policy.RequireUpper, hasUpper, "Must contain an uppercase letter."},
		{policy.RequireLower, hasLower, "Must contain a lowercase letter."},
		{policy.RequireDigit, hasDigit, "Must contain a digit."},
		{policy.RequireSymbol, hasSymbol, fmt.Sprintf("Must contain a symbol (%s).", symbols)},
	}

	for _, c := range criteria {
		if !c.enabled {
			continue
		}
		result.MaxScore++
		if c.met {
			result.Score++
		} else {
			result.Feedback = append(result.Feedback, c.feedback)
		}
	}

	result.Strong = result.Score == result.MaxScore
	return result
}
