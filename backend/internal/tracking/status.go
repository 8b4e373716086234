package tracking

import (
	"strings"
)

// Category is the semantic action a raw status token implies.
type Category int

const (
	// CategorySignup: empty cell, the customer has not been started.
	CategorySignup Category = iota
	// CategoryVerification: account needs verification or a verification fix.
	CategoryVerification
	// CategoryDeposit: account needs a deposit.
	CategoryDeposit
	// CategoryWager: funds are ready to be played.
	CategoryWager
	// CategoryProgress: multi-week timeline tracking ("week 2").
	CategoryProgress
	// CategoryVIP: account has reached VIP status.
	CategoryVIP
	// CategoryOther: vocabulary we do not recognize yet.
	CategoryOther
)

// String returns the category's display name.
func (c Category) String() string {
	switch c {
	case CategorySignup:
		return "signup"
	case CategoryVerification:
		return "verification"
	case CategoryDeposit:
		return "deposit"
	case CategoryWager:
		return "wager"
	case CategoryProgress:
		return "progress"
	case CategoryVIP:
		return "vip"
	default:
		return "other"
	}
}

// IsTerminal reports whether a status represents finished work. Terminal
// statuses must be filtered out before Classify is called; they carry no
// outstanding action.
func (c Config) IsTerminal(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	for _, t := range c.TerminalStatuses {
		if s == t {
			return true
		}
	}
	return false
}

// Classify maps a raw cell status to its action category. Checks run in a
// fixed precedence: exact tokens, then amount tokens, then substrings.
func (c Config) Classify(status string) Category {
	s := strings.ToLower(strings.TrimSpace(status))

	switch {
	case s == "":
		return CategorySignup
	case s == "verify" || s == "verifyfix":
		return CategoryVerification
	case s == "deposit" || s == "signed up ready":
		return CategoryDeposit
	case s == "ready" || c.isAmount(s):
		return CategoryWager
	case strings.Contains(s, "week"):
		return CategoryProgress
	case s == "vip":
		return CategoryVIP
	default:
		return CategoryOther
	}
}

// Describe renders a raw status as a human-readable phrase for reminder
// messages. Unrecognized tokens are echoed verbatim on purpose: new status
// vocabulary shows up in the sheets over time and should still be legible.
func (c Config) Describe(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))

	switch {
	case s == "":
		return "Not started (blank)"
	case s == "verify":
		return "Needs verification"
	case s == "verifyfix":
		return "Needs verification fix"
	case s == "ready":
		return "Ready to proceed"
	case s == "signed up ready":
		return "Account created, ready for deposit"
	case s == "vip":
		return "VIP status achieved"
	case s == "deposit":
		return "Needs deposit"
	case strings.Contains(s, "week"):
		return strings.TrimSpace(status) + " in progress"
	case c.isShorthandAmount(s):
		return "Ready with $" + strings.ReplaceAll(s, "k", "000")
	case isNumericAmount(s):
		return "Ready with $" + strings.TrimSpace(status)
	default:
		return strings.TrimSpace(status)
	}
}

func (c Config) isAmount(s string) bool {
	return c.isShorthandAmount(s) || isNumericAmount(s)
}

func (c Config) isShorthandAmount(s string) bool {
	for _, a := range c.ShorthandAmounts {
		if s == a {
			return true
		}
	}
	return false
}

// isNumericAmount reports whether the token is entirely numeric after
// stripping the k suffix, dollar signs and thousands separators.
func isNumericAmount(s string) bool {
	stripped := strings.NewReplacer("k", "", "$", "", ",", "").Replace(s)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
