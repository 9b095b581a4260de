package collection

import (
	"github.com/victorebouvie/portfoliosync/internal/domain"
)

// Merge appends a candidate record to the collection unless a record with
// the same name already exists. On insert the candidate receives the next
// sequential id. The input collection is never mutated; the caller decides
// whether to persist based on the inserted flag.
func Merge(col domain.ProjectCollection, candidate domain.ProjectRecord) (domain.ProjectCollection, bool) {
	if _, found := col.FindByName(candidate.Name); found {
		return col, false
	}

	candidate.ID = col.MaxID() + 1
	if candidate.Technologies == nil {
		// A nil slice would persist as JSON null and fail schema
		// validation on the next load.
		candidate.Technologies = []string{}
	}

	merged := make(domain.ProjectCollection, len(col), len(col)+1)
	copy(merged, col)
	return append(merged, candidate), true
}
