package services

// DefaultFreeLimit is the number of records the free tier may hold.
const DefaultFreeLimit = 2

// AccessPolicy gates creation of brand-new records. Edits and mark-paid never consult it.
type AccessPolicy struct {
	FreeLimit int
}

// NewAccessPolicy returns a policy with the given limit. A negative limit
// selects DefaultFreeLimit; zero disables creation entirely.
func NewAccessPolicy(limit int) AccessPolicy {
	if limit < 0 {
		limit = DefaultFreeLimit
	}
	return AccessPolicy{FreeLimit: limit}
}

// CanCreate reports whether one more record may be added to a collection of current records.
func (a AccessPolicy) CanCreate(current int) bool {
	return CanCreate(current, a.FreeLimit)
}

// CanCreate is the bare decision behind AccessPolicy.
func CanCreate(current, freeLimit int) bool {
	return current < freeLimit
}
