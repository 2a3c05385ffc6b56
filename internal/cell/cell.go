package cell

// Cell is a named unit of code extracted from a literate document,
// together with its declared prerequisite cell ids.
type Cell struct {
	ID           string   `json:"id"`
	Code         string   `json:"code"`
	Dependencies []string `json:"dependencies"` // declaration order, may reference unknown ids
	Executed     bool     `json:"executed"`
}

// Set maps cell ids to cells. Iteration order over a Set carries no
// meaning; consumers that need a stable order must use a resolved
// topological order instead.
type Set map[string]*Cell

// Add inserts c, overwriting any earlier cell with the same id
// (last write wins).
func (s Set) Add(c *Cell) {
	s[c.ID] = c
}

// IDs returns every cell id, in no particular order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}
