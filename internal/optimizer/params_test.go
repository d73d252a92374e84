package optimizer

import (
	"reflect"
	"testing"

	"stocksim/types"
)

func TestCombinations(t *testing.T) {
	t.Run("should expand the full product", func(t *testing.T) {
		space := map[string][]float64{
			"a": {1, 2},
			"b": {10, 20, 30},
		}
		combos := Combinations(space)
		if len(combos) != 6 {
			t.Fatalf("len = %d, want 6", len(combos))
		}

		seen := make(map[[2]float64]bool)
		for _, combo := range combos {
			seen[[2]float64{combo["a"], combo["b"]}] = true
		}
		if len(seen) != 6 {
			t.Errorf("duplicates in product: %d unique of 6", len(seen))
		}
	})

	t.Run("should be deterministic across calls", func(t *testing.T) {
		space := map[string][]float64{
			"z": {1, 2},
			"a": {3, 4},
			"m": {5},
		}
		first := Combinations(space)
		for i := 0; i < 10; i++ {
			if !reflect.DeepEqual(first, Combinations(space)) {
				t.Fatal("ordering varies between calls")
			}
		}
	})

	t.Run("should iterate names in sorted order", func(t *testing.T) {
		space := map[string][]float64{
			"b": {1, 2},
			"a": {1, 2},
		}
		combos := Combinations(space)
		want := []types.Params{
			{"a": 1, "b": 1},
			{"a": 1, "b": 2},
			{"a": 2, "b": 1},
			{"a": 2, "b": 2},
		}
		if !reflect.DeepEqual(combos, want) {
			t.Errorf("combos = %v, want %v", combos, want)
		}
	})

	t.Run("should return nil for an empty space", func(t *testing.T) {
		if combos := Combinations(nil); combos != nil {
			t.Errorf("Combinations(nil) = %v, want nil", combos)
		}
	})
}
