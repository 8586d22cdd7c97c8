package treemodel

// ItemsChangedFunc observes a ListStore. At position, removed items were
// replaced by added items. A (pos, 1, 1) notification means the item at pos
// changed in place.
type ItemsChangedFunc func(position, removed, added int)

// ListStore is an observable, ordered list of tree items.
type ListStore struct {
	items    []*TreeItem
	handlers []storeHandler
	nextID   int
}

type storeHandler struct {
	id int
	fn ItemsChangedFunc
}

// NewListStore creates an empty store.
func NewListStore() *ListStore {
	return &ListStore{}
}

// Len returns the number of items.
func (s *ListStore) Len() int {
	return len(s.items)
}

// At returns the item at index i, or nil when i is out of range.
func (s *ListStore) At(i int) *TreeItem {
	if i < 0 || i >= len(s.items) {
		return nil
	}
	return s.items[i]
}

// Items returns a copy of the items in store order.
func (s *ListStore) Items() []*TreeItem {
	out := make([]*TreeItem, len(s.items))
	copy(out, s.items)
	return out
}

// Append adds item at the end.
func (s *ListStore) Append(item *TreeItem) {
	s.items = append(s.items, item)
	s.ItemsChanged(len(s.items)-1, 0, 1)
}

// Remove deletes the item at index i. Out of range indexes are ignored.
func (s *ListStore) Remove(i int) {
	if i < 0 || i >= len(s.items) {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.ItemsChanged(i, 1, 0)
}

// RemoveAll empties the store.
func (s *ListStore) RemoveAll() {
	n := len(s.items)
	if n == 0 {
		return
	}
	s.items = nil
	s.ItemsChanged(0, n, 0)
}

// Find returns the index of item, compared by identity.
func (s *ListStore) Find(item *TreeItem) (int, bool) {
	for i, it := range s.items {
		if it == item {
			return i, true
		}
	}
	return -1, false
}

// ItemsChanged notifies all observers.
func (s *ListStore) ItemsChanged(position, removed, added int) {
	handlers := make([]storeHandler, len(s.handlers))
	copy(handlers, s.handlers)
	for _, h := range handlers {
		h.fn(position, removed, added)
	}
}

// Connect registers fn and returns a function that disconnects it.
func (s *ListStore) Connect(fn ItemsChangedFunc) func() {
	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, storeHandler{id: id, fn: fn})
	return func() {
		for i, h := range s.handlers {
			if h.id == id {
				s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
				return
			}
		}
	}
}
