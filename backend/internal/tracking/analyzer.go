package tracking

import "strings"

// Task is one outstanding item: the row it belongs to and its raw status.
type Task struct {
	PrimaryLabel string
	Status       string
}

// Analysis groups a snapshot's outstanding work by subject (customer) and
// action category. Subjects preserves sheet column order so report output
// is reproducible.
type Analysis struct {
	Subjects []string
	Tasks    map[string]map[Category][]Task
}

// Total returns the number of outstanding tasks across all subjects.
func (a *Analysis) Total() int {
	n := 0
	for _, byCat := range a.Tasks {
		for _, tasks := range byCat {
			n += len(tasks)
		}
	}
	return n
}

// TasksFor returns a subject's tasks grouped by category; nil when the
// subject has nothing outstanding.
func (a *Analysis) TasksFor(subject string) map[Category][]Task {
	return a.Tasks[subject]
}

// Analyze walks one snapshot and collects every non-terminal cell under its
// subject and category. Section-header rows and rows without a primary
// label contribute nothing.
func (c Config) Analyze(snapshot Snapshot) *Analysis {
	result := &Analysis{Tasks: make(map[string]map[Category][]Task)}
	if len(snapshot) == 0 {
		return result
	}

	subjects := c.SubjectColumns(snapshot[0])
	result.Subjects = subjects

	for _, row := range snapshot {
		label := c.PrimaryLabel(row)
		if label == "" {
			continue
		}
		if c.isCategoryHeader(label) {
			continue
		}

		for _, subject := range subjects {
			status := strings.TrimSpace(row.Get(subject))
			if c.IsTerminal(status) {
				continue
			}

			category := c.Classify(status)
			byCat := result.Tasks[subject]
			if byCat == nil {
				byCat = make(map[Category][]Task)
				result.Tasks[subject] = byCat
			}
			byCat[category] = append(byCat[category], Task{PrimaryLabel: label, Status: status})
		}
	}

	return result
}

// SubjectColumns derives the customer columns from a row's header set:
// everything that is not a metadata column and not a category marker.
func (c Config) SubjectColumns(row *Row) []string {
	if row == nil {
		return nil
	}

	var subjects []string
	for _, col := range row.Columns() {
		lower := strings.ToLower(col)
		if c.containsMetadataKeyword(lower) {
			continue
		}
		if c.matchesCategoryKeyword(lower) {
			continue
		}
		subjects = append(subjects, col)
	}
	return subjects
}

// PrimaryLabel extracts the row's identifying name (the sportsbook) by
// scanning the leading columns for a value that does not look like
// metadata. Returns "" when the row cannot be attributed.
func (c Config) PrimaryLabel(row *Row) string {
	cols := row.Columns()
	limit := c.PrimaryLabelColumns
	if limit > len(cols) {
		limit = len(cols)
	}

	for _, col := range cols[:limit] {
		value := strings.TrimSpace(row.Get(col))
		if value == "" {
			continue
		}
		if c.looksLikeMetadataValue(value) {
			continue
		}
		return value
	}
	return ""
}

func (c Config) containsMetadataKeyword(lowerCol string) bool {
	for _, kw := range c.MetadataKeywords {
		if strings.Contains(lowerCol, kw) {
			return true
		}
	}
	return false
}

func (c Config) matchesCategoryKeyword(lowerCol string) bool {
	for _, kw := range c.CategoryKeywords {
		if lowerCol == kw || strings.HasPrefix(lowerCol, kw) {
			return true
		}
	}
	return false
}

func (c Config) looksLikeMetadataValue(value string) bool {
	lower := strings.ToLower(value)
	for _, hint := range c.MetadataValueHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// isCategoryHeader reports whether a primary label is really a section
// header embedded as a row ("CASINO:", "Slots").
func (c Config) isCategoryHeader(label string) bool {
	clean := strings.TrimSpace(strings.TrimSuffix(strings.ToLower(label), ":"))
	for _, kw := range c.CategoryKeywords {
		if clean == kw || strings.HasPrefix(clean, kw) {
			return true
		}
	}
	return false
}
