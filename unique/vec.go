package unique

// Vec is a slice-backed container whose elements are addressed by indexed
// IDs. Push hands back an ID that must be presented again to retrieve the
// element; a stale or foreign ID is rejected by comparing it against the ID
// stored in the slot, so lookups stay O(1) without risking aliased access.
type Vec[T any] struct {
	data []T
	ids  []ID
}

// Push appends v and returns the indexed ID addressing it.
func (v *Vec[T]) Push(item T) ID {
	id := GenerateWithIndex(uint32(len(v.data)))
	v.data = append(v.data, item)
	v.ids = append(v.ids, id)
	return id
}

// Pop removes and returns the last element and its ID. The second return
// value is false when the Vec is empty.
func (v *Vec[T]) Pop() (ID, T, bool) {
	var zero T
	n := len(v.data)
	if n == 0 {
		return ID{}, zero, false
	}
	id, item := v.ids[n-1], v.data[n-1]
	v.ids = v.ids[:n-1]
	v.data = v.data[:n-1]
	return id, item, true
}

// Get returns the element addressed by id. The second return value is false
// when id is unindexed, out of range, or does not match the ID currently
// occupying the slot.
func (v *Vec[T]) Get(id ID) (T, bool) {
	var zero T
	i, ok := v.slot(id)
	if !ok {
		return zero, false
	}
	return v.data[i], true
}

// Set replaces the element addressed by id, returning false under the same
// conditions as Get.
func (v *Vec[T]) Set(id ID, item T) bool {
	i, ok := v.slot(id)
	if !ok {
		return false
	}
	v.data[i] = item
	return true
}

// Len returns the number of stored elements.
func (v *Vec[T]) Len() int {
	return len(v.data)
}

func (v *Vec[T]) slot(id ID) (int, bool) {
	idx, ok := id.Index()
	if !ok {
		return 0, false
	}
	i := int(idx)
	if i >= len(v.data) || v.ids[i] != id {
		return 0, false
	}
	return i, true
}
