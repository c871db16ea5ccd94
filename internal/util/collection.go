package util

// StringSet : a Set for strings
type StringSet map[string]struct{}

// NewStringSet creates a new StringSet from a number of passed string keys.
func NewStringSet(vals ...string) StringSet {
	set := make(StringSet)
	for _, val := range vals {
		set[val] = struct{}{}
	}
	return set
}

// Has tests the existence of `key` in the set.
func (set StringSet) Has(key string) bool {
	_, ok := set[key]
	return ok
}

// Add puts a value into the set.
func (set StringSet) Add(key string) StringSet {
	set[key] = struct{}{}
	return set
}

// Values returns the contents of the set, in no particular order.
func (set StringSet) Values() []string {
	values := make([]string, 0, len(set))
	for k := range set {
		values = append(values, k)
	}
	return values
}

// Distinct returns `vals` without duplicates, keeping the first occurrence
// of each value in its original position.
func Distinct(vals []string) []string {
	seen := make(StringSet)
	result := make([]string, 0, len(vals))
	for _, v := range vals {
		if seen.Has(v) {
			continue
		}
		seen.Add(v)
		result = append(result, v)
	}
	return result
}
