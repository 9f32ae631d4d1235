package transfer

import (
	"unicode"
	"unicode/utf8"

	"github.com/statbank-go/statbank/pkg/dataset"
)

// Validate checks the request parameters. It does not look at datasets and
// has no side effects.
func (r Request) Validate() error {
	if r.LoadUser == "" {
		return &ValidationError{Field: "loaduser", Reason: "must be set"}
	}

	people := []struct{ field, value string }{
		{"initials", r.Initials},
		{"recipient1", r.Recipient1},
		{"recipient2", r.Recipient2},
	}
	for _, p := range people {
		if err := validateInitials(p.field, p.value); err != nil {
			return err
		}
	}

	if !validDateForm(r.PublishDate) {
		return &ValidationError{Field: "publish date", Value: r.PublishDate, Reason: "must look like 1900-01-01"}
	}

	switch r.Overwrite {
	case OverwriteNo, OverwriteYes:
	default:
		return &ValidationError{
			Field:  "overwrite",
			Value:  string(r.Overwrite),
			Reason: `must be "0" (no overwrite, duplicates fail) or "1" (overwrite)`,
		}
	}

	switch r.Approve {
	case ApproveManual, ApproveImmediate, ApproveJIT:
	default:
		return &ValidationError{
			Field:  "approve",
			Value:  string(r.Approve),
			Reason: `must be "0" (manual), "1" (immediate) or "2" (just in time)`,
		}
	}

	return nil
}

func validateInitials(field, v string) error {
	if utf8.RuneCountInString(v) != 3 {
		return &ValidationError{Field: field, Value: v, Reason: "must be exactly three letters"}
	}
	for _, r := range v {
		if !unicode.IsLetter(r) {
			return &ValidationError{Field: field, Value: v, Reason: "must be exactly three letters"}
		}
	}
	return nil
}

// validDateForm checks the dddd-dd-dd digit grouping only.
func validDateForm(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i == 4 || i == 7 {
			if c != '-' {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func validateDatasets(tables []dataset.Table) error {
	if len(tables) == 0 {
		return ErrNoDatasets
	}
	seen := make(map[string]bool, len(tables))
	for _, t := range tables {
		if t.Name == "" {
			return &ValidationError{Field: "dataset name", Reason: "must be set"}
		}
		if seen[t.Name] {
			return &ValidationError{Field: "dataset name", Value: t.Name, Reason: "is used more than once"}
		}
		seen[t.Name] = true
	}
	return nil
}
