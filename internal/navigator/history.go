package navigator

// history is the back-navigation stack of visited locations.
type history struct {
	entries []string
}

func (h *history) push(loc string) {
	h.entries = append(h.entries, loc)
}

// pop removes and returns the most recent location.
func (h *history) pop() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	loc := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return loc, true
}

func (h *history) snapshot() []string {
	return append([]string(nil), h.entries...)
}
