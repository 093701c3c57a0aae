package dataprocessing

import (
	"strings"

	apperrors "github.com/tomtap1997/dashbord-tr/internal/errors"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

// Status filter values beyond the three statuses.
const (
	FilterAll       = "ALL"
	FilterUnbalance = "UNBALANCE"
)

// Filter returns the records matching criteria in their original order.
// The input slice is not modified.
func Filter(records []domain.TransformerRecord, criteria domain.FilterCriteria) ([]domain.TransformerRecord, error) {
	match, err := statusMatcher(criteria.Status)
	if err != nil {
		return nil, err
	}
	query := strings.ToLower(strings.TrimSpace(criteria.Query))

	out := make([]domain.TransformerRecord, 0, len(records))
	for _, r := range records {
		if !match(r) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(r.ID), query) &&
			!strings.Contains(strings.ToLower(r.Location), query) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func statusMatcher(status string) (func(domain.TransformerRecord) bool, error) {
	s := strings.ToUpper(strings.TrimSpace(status))
	switch s {
	case "", FilterAll:
		return func(domain.TransformerRecord) bool { return true }, nil
	case FilterUnbalance:
		return domain.TransformerRecord.HasUnbalanceIssue, nil
	}

	want, ok := domain.ParseStatus(s)
	if !ok {
		return nil, apperrors.NewAppValidationError("unknown status filter " + status).
			WithContext("status", status)
	}
	return func(r domain.TransformerRecord) bool { return r.Status == want }, nil
}
