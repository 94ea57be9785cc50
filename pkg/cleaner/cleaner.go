// Package cleaner removes the incoherent records of an experiment.
//
// Two filters are applied: the mismatch filter keeps only the records whose group
// and landing page agree, and the duplicate filter keeps the first record of every
// user. Both are pure: they return a new Dataset and leave their input untouched.
package cleaner

import (
	"github.com/askiada/go-abtest/pkg/dataset"
)

// IsMatched reports whether the landing page of r agrees with its group:
// treatment users land on the old page and control users on the new page.
func IsMatched(r dataset.Record) bool {
	return (r.Group == dataset.Treatment && r.LandingPage == dataset.OldPage) ||
		(r.Group == dataset.Control && r.LandingPage == dataset.NewPage)
}

// UserFilter keeps the first record seen for each user.
// It is not safe for concurrent use.
type UserFilter struct {
	seen map[string]struct{}
}

func NewUserFilter() *UserFilter {
	return &UserFilter{seen: make(map[string]struct{})}
}

// Keep reports whether r is the first record of its user seen by f.
func (f *UserFilter) Keep(r dataset.Record) bool {
	if _, ok := f.seen[r.UserID]; ok {
		return false
	}
	f.seen[r.UserID] = struct{}{}

	return true
}

// DropMismatched returns the records of ds whose group and landing page agree.
func DropMismatched(ds dataset.Dataset) dataset.Dataset {
	return ds.Filter(IsMatched)
}

// DropDuplicatedUsers returns the first record of every user of ds, in input order.
func DropDuplicatedUsers(ds dataset.Dataset) dataset.Dataset {
	return ds.Filter(NewUserFilter().Keep)
}

// Clean drops the mismatched records, then the duplicated users.
func Clean(ds dataset.Dataset) dataset.Dataset {
	return DropDuplicatedUsers(DropMismatched(ds))
}
