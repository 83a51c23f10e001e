package symbols

import (
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest returns the declared name closest to the unresolved name, or ""
// when nothing is close enough. Only names of the same module are
// considered for a bare reference.
func (r *Registry) Suggest(name string) string {
	module, bare := splitName(name)
	if bare == "" {
		return ""
	}
	var candidates []string
	full := make(map[string]string)
	for _, n := range r.Names() {
		m, b := splitName(n)
		if m != module || b == bare {
			continue
		}
		candidates = append(candidates, b)
		full[b] = n
	}
	if len(candidates) == 0 {
		return ""
	}

	best := Closest(bare, candidates)
	if best == "" {
		return ""
	}
	return full[best]
}

// Closest picks the candidate nearest to name: fuzzy matches first, then
// Levenshtein distance within a third of the name. Ties go to the
// lexically smaller candidate so the answer does not depend on map order.
func Closest(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	if ranks := fuzzy.RankFindFold(name, candidates); len(ranks) > 0 {
		slices.SortFunc(ranks, func(x, y fuzzy.Rank) int {
			if x.Distance != y.Distance {
				return x.Distance - y.Distance
			}
			return strings.Compare(x.Target, y.Target)
		})
		return ranks[0].Target
	}

	best, bestDist := "", len(name)/3+1
	lower := strings.ToLower(name)
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(lower, strings.ToLower(c))
		if d > bestDist {
			continue
		}
		if d < bestDist || best == "" || c < best {
			best, bestDist = c, d
		}
	}
	return best
}

// LastSegment returns the unqualified part of a fully qualified name.
func LastSegment(name string) string {
	_, bare := splitName(name)
	return bare
}

func splitName(name string) (module, bare string) {
	i := strings.LastIndex(name, "::")
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+2:]
}
