package cmp

// MapEq returns true if two maps have the same key set and equal values.
func MapEq[K comparable, V comparable](a map[K]V, b map[K]V) bool {
	return MapEqWith(a, b, func(av V, bv V) bool { return av == bv })
}

// MapEqWith is MapEq under the given value equivalence.
func MapEqWith[K comparable, V any, W any](a map[K]V, b map[K]W, eq func(V, W) bool) bool {
	if len(a) != len(b) {
		return false
	}
	return MapGeqWith(a, b, eq)
}

// MapGeq returns true if a has every entry of b (a ⊇ b).
func MapGeq[K comparable, V comparable](a map[K]V, b map[K]V) bool {
	return MapGeqWith(a, b, func(av V, bv V) bool { return av == bv })
}

// MapGeqWith is MapGeq under the given value equivalence.
func MapGeqWith[K comparable, V any, W any](a map[K]V, b map[K]W, eq func(V, W) bool) bool {
	for k, bv := range b {
		av, ok := a[k]
		if !ok || !eq(av, bv) {
			return false
		}
	}
	return true
}

// MapLeq returns true if every entry of a is in b (a ⊆ b).
func MapLeq[K comparable, V comparable](a map[K]V, b map[K]V) bool {
	return MapGeq(b, a)
}

// MapLeqWith is MapLeq under the given value equivalence.
func MapLeqWith[K comparable, V any, W any](a map[K]V, b map[K]W, eq func(V, W) bool) bool {
	return MapGeqWith(b, a, func(bv W, av V) bool { return eq(av, bv) })
}

// MapMatch returns true if m and predicators have the same key set and
// each value satisfies the predicate registered for its key.
func MapMatch[K comparable, V any](m map[K]V, predicators map[K]func(V) bool) bool {
	if len(m) != len(predicators) {
		return false
	}
	for k, v := range m {
		pred, ok := predicators[k]
		if !ok || !pred(v) {
			return false
		}
	}
	return true
}
