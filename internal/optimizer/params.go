package optimizer

import (
	"sort"

	"stocksim/types"
)

// Combinations expands a parameter-range table into the full Cartesian
// product. Names are iterated in sorted order so the output is deterministic
// for a given space.
func Combinations(space map[string][]float64) []types.Params {
	if len(space) == 0 {
		return nil
	}

	names := make([]string, 0, len(space))
	for name := range space {
		names = append(names, name)
	}
	sort.Strings(names)

	combos := []types.Params{{}}
	for _, name := range names {
		values := space[name]
		next := make([]types.Params, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, value := range values {
				expanded := make(types.Params, len(combo)+1)
				for k, v := range combo {
					expanded[k] = v
				}
				expanded[name] = value
				next = append(next, expanded)
			}
		}
		combos = next
	}
	return combos
}
