package rank

import "skilltrend-engine/internal/domain"

// Tagger labels a listing with coarse job types.
type Tagger interface {
	Tags(job domain.JobRecord) []string
}
