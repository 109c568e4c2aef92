package todo

// Item is a single todo entry. Items are immutable; mutations replace
// the whole list rather than editing entries in place.
type Item struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// NextID returns the identifier for the next item: max(existing ids)+1.
// An empty list yields 0.
func NextID(items []Item) int {
	max := -1
	for _, it := range items {
		if it.ID > max {
			max = it.ID
		}
	}
	return max + 1
}

// Add returns a new list with an item appended under the next identifier.
// The input list is not modified.
func Add(items []Item, title string) []Item {
	out := make([]Item, len(items), len(items)+1)
	copy(out, items)
	return append(out, Item{ID: NextID(items), Title: title})
}

// RemoveLast returns a new list with the last item dropped.
// Lists with one or zero elements are returned unchanged: the list never
// shrinks below one remaining element.
func RemoveLast(items []Item) []Item {
	if len(items) <= 1 {
		return items
	}
	out := make([]Item, len(items)-1)
	copy(out, items[:len(items)-1])
	return out
}
