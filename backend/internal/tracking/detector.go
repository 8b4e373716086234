package tracking

import "strings"

// ChangeRecord is one cell transition between baseline and current.
// Statuses are stored trimmed and lower-cased, the same normalization the
// comparison uses.
type ChangeRecord struct {
	Subject      string
	PrimaryLabel string
	OldStatus    string
	NewStatus    string
}

// ChangeReport aggregates one diff pass. AllChanges holds every transition;
// the named buckets hold the semantically interesting ones. An ordinary
// transition between two working statuses ("verify" -> "ready") appears in
// AllChanges only but still marks its subject as touched.
type ChangeReport struct {
	Completions     []ChangeRecord
	Escalations     []ChangeRecord
	AttentionNeeded []ChangeRecord
	AllChanges      []ChangeRecord

	// SubjectsTouched lists every subject with at least one change, in
	// first-touch order.
	SubjectsTouched []string
	touched         map[string]bool
}

// HasChanges reports whether the diff found anything at all.
func (r *ChangeReport) HasChanges() bool {
	return len(r.AllChanges) > 0
}

// ChangesFor returns all transitions for one subject, in diff order.
func (r *ChangeReport) ChangesFor(subject string) []ChangeRecord {
	var out []ChangeRecord
	for _, ch := range r.AllChanges {
		if ch.Subject == subject {
			out = append(out, ch)
		}
	}
	return out
}

func (r *ChangeReport) touch(subject string) {
	if r.touched == nil {
		r.touched = make(map[string]bool)
	}
	if !r.touched[subject] {
		r.touched[subject] = true
		r.SubjectsTouched = append(r.SubjectsTouched, subject)
	}
}

// Diff compares a morning baseline against the current snapshot of the
// same sheet and classifies every per-cell transition. Missing or empty
// snapshots yield an empty report, never an error. The subject column set
// comes from the baseline's first row; a subject present only in the
// current snapshot is simply not compared.
func (c Config) Diff(baseline, current Snapshot) *ChangeReport {
	report := &ChangeReport{}
	if len(baseline) == 0 || len(current) == 0 {
		return report
	}

	subjects := c.SubjectColumns(baseline[0])
	currentByLabel := c.buildCurrentIndex(current)

	for _, baseRow := range baseline {
		label := c.PrimaryLabel(baseRow)
		if label == "" {
			continue
		}
		if c.isCategoryHeader(label) {
			continue
		}

		currentRow, ok := currentByLabel[label]
		if !ok {
			// Row removed since the baseline; nothing to compare.
			continue
		}

		for _, subject := range subjects {
			oldStatus := normalizeStatus(baseRow.Get(subject))
			newStatus := normalizeStatus(currentRow.Get(subject))
			if oldStatus == newStatus {
				continue
			}

			change := ChangeRecord{
				Subject:      subject,
				PrimaryLabel: label,
				OldStatus:    oldStatus,
				NewStatus:    newStatus,
			}

			report.AllChanges = append(report.AllChanges, change)
			report.touch(subject)

			if c.IsTerminal(newStatus) {
				report.Completions = append(report.Completions, change)
			}
			if newStatus == c.ErrorMarker {
				report.Escalations = append(report.Escalations, change)
			}
			if newStatus == c.AttentionMarker {
				report.AttentionNeeded = append(report.AttentionNeeded, change)
			}
		}
	}

	return report
}

// buildCurrentIndex keys current rows by primary label. When two rows share
// a label the later one wins; that tie-break is a pragmatic choice, not a
// verified sheet convention.
func (c Config) buildCurrentIndex(current Snapshot) map[string]*Row {
	index := make(map[string]*Row, len(current))
	for _, row := range current {
		label := c.PrimaryLabel(row)
		if label == "" {
			continue
		}
		index[label] = row
	}
	return index
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
