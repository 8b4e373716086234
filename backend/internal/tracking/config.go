package tracking

// Config carries the vocabulary the analyzer and detector match against.
// Sheet schemas drift, so everything is data rather than hardcoded control
// flow: tests and future schemas can swap lists without touching the
// algorithms.
type Config struct {
	// MetadataKeywords mark non-customer columns by substring match on the
	// lower-cased column name (DEPOSIT, METHOD, BET TYPE, ...).
	MetadataKeywords []string

	// CategoryKeywords mark section headers, both as column names and as
	// rows embedded in the sheet ("CASINO:", "SLOTS").
	CategoryKeywords []string

	// MetadataValueHints disqualify a cell from being a row's primary
	// label when the cell value contains one of them.
	MetadataValueHints []string

	// ShorthandAmounts are the canonical dollar-amount tokens that mean a
	// customer is ready to wager.
	ShorthandAmounts []string

	// TerminalStatuses represent finished work and are excluded from
	// classification entirely.
	TerminalStatuses []string

	// ErrorMarker is the status that flags an escalation in diffs.
	ErrorMarker string

	// AttentionMarker is the status that flags next-morning attention.
	AttentionMarker string

	// PrimaryLabelColumns is how many leading columns are scanned when
	// deriving a row's primary label.
	PrimaryLabelColumns int
}

// DefaultConfig returns the vocabulary of the current tracking sheets.
func DefaultConfig() Config {
	return Config{
		MetadataKeywords:    []string{"deposit", "method", "bet", "type"},
		CategoryKeywords:    []string{"casino", "slots", "blackjack", "sports", "baccarat"},
		MetadataValueHints:  []string{"$", "debit", "etransfer", "rfb", "lowhold", "baccarat"},
		ShorthandAmounts:    []string{"1k", "1000", "500", "2000", "2500", "3000", "5000"},
		TerminalStatuses:    []string{"done", "complete"},
		ErrorMarker:         "vip",
		AttentionMarker:     "help",
		PrimaryLabelColumns: 6,
	}
}
