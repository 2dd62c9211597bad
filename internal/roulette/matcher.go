package roulette

import (
	"sort"

	"github.com/samber/lo"
)

// Compatible reports whether two waiting entries accept each other.
// Interests are deliberately not part of the rule.
func Compatible(a, b WaitingEntry) bool {
	return accepts(a.WantedGender, b.Gender) && accepts(b.WantedGender, a.Gender)
}

func accepts(wanted, gender Gender) bool {
	return wanted == GenderAll || wanted == gender
}

// SharedInterests returns the sorted intersection of both interest lists.
func SharedInterests(a, b WaitingEntry) []string {
	shared := lo.Uniq(lo.Intersect(a.Interests, b.Interests))
	if len(shared) == 0 {
		return nil
	}
	sort.Strings(shared)
	return shared
}
