package model

// Node is a network diagram vertex positioned in a 0-100 coordinate space.
type Node struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Edge connects two nodes by identifier. An edge's position in its slice is
// its reveal order.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Chain builds edges from consecutive id pairs, e.g. Chain("A", "B", "B", "C").
// A trailing unpaired id is ignored.
func Chain(ids ...string) []Edge {
	edges := make([]Edge, 0, len(ids)/2)
	for i := 0; i+1 < len(ids); i += 2 {
		edges = append(edges, Edge{From: ids[i], To: ids[i+1]})
	}
	return edges
}

// DefaultNodes is the nine-node layout shown in the connectivity panel.
func DefaultNodes() []Node {
	return []Node{
		{ID: "A", X: 14, Y: 60},
		{ID: "B", X: 34, Y: 30},
		{ID: "C", X: 56, Y: 48},
		{ID: "D", X: 78, Y: 28},
		{ID: "E", X: 86, Y: 62},
		{ID: "F", X: 62, Y: 74},
		{ID: "G", X: 40, Y: 72},
		{ID: "H", X: 22, Y: 86},
		{ID: "I", X: 82, Y: 88},
	}
}

// DefaultEdges is the eight-link chain, listed in reveal order.
func DefaultEdges() []Edge {
	return Chain(
		"A", "B", "B", "C", "C", "D", "D", "E",
		"E", "F", "F", "G", "G", "H", "F", "I",
	)
}
