package geometry

import (
	"errors"
	"fmt"

	"github.com/alfredjeanlab/reveal/internal/model"
)

// NetworkCanvas is the node-link viewBox. Node coordinates are already in
// this space, so no scaling is applied.
var NetworkCanvas = Canvas{Width: 100, Height: 100}

// Link is an edge resolved to segment endpoints.
type Link struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Start Point  `json:"start"`
	End   Point  `json:"end"`
}

// Network is a validated node-link layout.
type Network struct {
	Nodes []model.Node `json:"nodes"`
	Links []Link       `json:"links"`
}

// ResolveNetwork validates the nodes and resolves each edge to segment
// endpoints. Any edge naming an unknown node is a configuration error and no
// partial network is returned. Edge order is preserved.
func ResolveNetwork(nodes []model.Node, edges []model.Edge) (Network, error) {
	var ce model.ConfigError
	if err := model.ValidateNodes(nodes); err != nil {
		var v *model.ConfigError
		if !errors.As(err, &v) {
			return Network{}, err
		}
		ce.Errors = append(ce.Errors, v.Errors...)
	}

	byID := make(map[string]model.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	links := make([]Link, 0, len(edges))
	for i, e := range edges {
		from, okFrom := byID[e.From]
		to, okTo := byID[e.To]
		if !okFrom {
			ce.Add(edgeField(i, "from"), "unknown node %q", e.From)
		}
		if !okTo {
			ce.Add(edgeField(i, "to"), "unknown node %q", e.To)
		}
		if !okFrom || !okTo {
			continue
		}
		links = append(links, Link{
			From:  e.From,
			To:    e.To,
			Start: Point{X: from.X, Y: from.Y},
			End:   Point{X: to.X, Y: to.Y},
		})
	}
	if err := ce.Err(); err != nil {
		return Network{}, err
	}

	out := Network{Nodes: make([]model.Node, len(nodes)), Links: links}
	copy(out.Nodes, nodes)
	return out, nil
}

func edgeField(i int, end string) string {
	return fmt.Sprintf("edges[%d].%s", i, end)
}
