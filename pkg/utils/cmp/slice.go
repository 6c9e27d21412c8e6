package cmp

// SliceEq returns true if two slices have the same content in the same order.
func SliceEq[T comparable](a []T, b []T) bool {
	return SliceEqWith(a, b, func(ae T, be T) bool { return ae == be })
}

// SliceEqWith returns true if two slices are element-wise equivalent
// under the given predicate.
func SliceEqWith[T any, U any](a []T, b []U, eq func(T, U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for nth := range a {
		if !eq(a[nth], b[nth]) {
			return false
		}
	}
	return true
}

// SliceContains returns true if needle occurs in haystack as a
// contiguous subsequence. An empty needle is found everywhere.
func SliceContains[T comparable](haystack []T, needle []T) bool {
	if len(needle) == 0 {
		return true
	}
	if len(haystack) < len(needle) {
		return false
	}
	for start := 0; start+len(needle) <= len(haystack); start++ {
		if SliceEq(haystack[start:start+len(needle)], needle) {
			return true
		}
	}
	return false
}

// SliceContentEq returns true if two slices hold the same multiset of
// elements, regardless of ordering.
func SliceContentEq[T comparable](a []T, b []T) bool {
	return SliceContentEqWith(a, b, func(ae T, be T) bool { return ae == be })
}

// SliceContentEqWith is SliceContentEq under the given equivalence.
//
// Each element of a is matched with a distinct element of b.
func SliceContentEqWith[T any, U any](a []T, b []U, eq func(T, U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	return SliceSubsetWith(a, b, func(ae T, be U) bool { return eq(ae, be) })
}

// SliceSubsetWith returns true if every element of part matches a
// distinct element of whole under the given predicate.
func SliceSubsetWith[T any, U any](whole []T, part []U, eq func(T, U) bool) bool {
	used := make([]bool, len(whole))

part:
	for _, pe := range part {
		for nth, we := range whole {
			if used[nth] || !eq(we, pe) {
				continue
			}
			used[nth] = true
			continue part
		}
		return false
	}
	return true
}
