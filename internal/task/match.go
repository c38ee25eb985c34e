package task

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// suggestThreshold is the minimum Jaro-Winkler similarity for a suggestion.
const suggestThreshold = 0.70

// Suggestion is a short name close to a requested one.
type Suggestion struct {
	ShortName string
	Score     float64
}

// Suggest returns the units whose short names resemble name, best first.
// Prefixes like SM_ and SKM_ are ignored when scoring so "Crate" finds "SM_Crate".
func (d *Document) Suggest(name string, limit int) []Suggestion {
	query := stripAssetPrefix(strings.ToLower(name))

	var out []Suggestion
	for _, u := range d.Objects {
		candidate := stripAssetPrefix(strings.ToLower(u.ShortName))
		score := float64(edlib.JaroWinklerSimilarity(query, candidate))
		if score >= suggestThreshold {
			out = append(out, Suggestion{ShortName: u.ShortName, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func stripAssetPrefix(s string) string {
	for _, p := range []string{"skm_", "sm_", "ucx_"} {
		if strings.HasPrefix(s, p) {
			return s[len(p):]
		}
	}
	return s
}
