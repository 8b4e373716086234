package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		status string
		want   Category
	}{
		{"", CategorySignup},
		{"   ", CategorySignup},
		{"verify", CategoryVerification},
		{"verifyfix", CategoryVerification},
		{"VERIFYFIX", CategoryVerification},
		{"deposit", CategoryDeposit},
		{"signed up ready", CategoryDeposit},
		{"ready", CategoryWager},
		{"1k", CategoryWager},
		{"1000", CategoryWager},
		{"500", CategoryWager},
		{"2500", CategoryWager},
		{"$2,000", CategoryWager},
		{"week 2", CategoryProgress},
		{"week 3", CategoryProgress},
		{"vip", CategoryVIP},
		{"try debit first", CategoryOther},
		{"waiting on support", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.Classify(tt.status))
		})
	}
}

func TestClassify_PrecedenceOrder(t *testing.T) {
	cfg := DefaultConfig()

	// "deposit" is both an exact deposit token and contains no "week";
	// exact matches run before substring checks.
	assert.Equal(t, CategoryDeposit, cfg.Classify("deposit"))
	// A numeric amount wins over the "week" substring check.
	assert.Equal(t, CategoryWager, cfg.Classify("2000"))
}

func TestIsTerminal(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.IsTerminal("done"))
	assert.True(t, cfg.IsTerminal("DONE"))
	assert.True(t, cfg.IsTerminal(" complete "))
	assert.False(t, cfg.IsTerminal("ready"))
	assert.False(t, cfg.IsTerminal(""))
}

func TestDescribe(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		status string
		want   string
	}{
		{"", "Not started (blank)"},
		{"verify", "Needs verification"},
		{"verifyfix", "Needs verification fix"},
		{"ready", "Ready to proceed"},
		{"signed up ready", "Account created, ready for deposit"},
		{"vip", "VIP status achieved"},
		{"deposit", "Needs deposit"},
		{"week 2", "week 2 in progress"},
		{"1k", "Ready with $1000"},
		{"2500", "Ready with $2500"},
		{"750", "Ready with $750"},
		// Unknown vocabulary is echoed verbatim so it stays legible.
		{"waiting on support", "waiting on support"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.Describe(tt.status))
		})
	}
}
