package shared

import "sort"

// FavouriteSet is the persisted set of favourite Umamusume ids.
type FavouriteSet map[int]struct{}

// NewFavouriteSet builds a set from ids.
func NewFavouriteSet(ids ...int) FavouriteSet {
	set := make(FavouriteSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s FavouriteSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

func (s FavouriteSet) Add(id int) {
	s[id] = struct{}{}
}

func (s FavouriteSet) Remove(id int) {
	delete(s, id)
}

func (s FavouriteSet) Len() int {
	return len(s)
}

// Clone returns an independent copy; a nil set clones to an empty one.
func (s FavouriteSet) Clone() FavouriteSet {
	out := make(FavouriteSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// IDs returns the members in ascending order.
func (s FavouriteSet) IDs() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Equal reports whether both sets hold the same ids.
func (s FavouriteSet) Equal(other FavouriteSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}
