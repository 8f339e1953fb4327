// Package connection models the paginated edge/node lists returned by GraphQL
// commerce APIs and flattens them into plain ordered slices.
//
// A Connection is an ordered list of edges, each optionally carrying a node.
// Absent nodes are tolerated everywhere: they are dropped when unwrapping and
// never cause a failure.
//
//	products := connection.Unwrap(resp.Collection.Products)
package connection

// PageInfo carries the cursor metadata of a connection page.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage,omitempty"`
	EndCursor   string `json:"endCursor,omitempty"`
}

// Edge wraps a single node. Node is nil when the upstream omitted it.
type Edge[T any] struct {
	Cursor string `json:"cursor,omitempty"`
	Node   *T     `json:"node"`
}

// Connection is an ordered list of edges. Edge order defines item order.
type Connection[T any] struct {
	Edges    []Edge[T] `json:"edges"`
	PageInfo PageInfo  `json:"pageInfo,omitempty"`
}

// Unwrap returns the present nodes of c in edge order.
// The result is never nil, so it encodes as an empty JSON array.
func Unwrap[T any](c Connection[T]) []T {
	out := make([]T, 0, len(c.Edges))
	for _, edge := range c.Edges {
		if edge.Node == nil {
			continue
		}
		out = append(out, *edge.Node)
	}
	return out
}

// UnwrapRefs is Unwrap returning pointers to copies of the present nodes.
func UnwrapRefs[T any](c Connection[T]) []*T {
	values := Unwrap(c)
	out := make([]*T, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}

// FromNodes wraps an already flat list so it can flow through the same
// reshaping pipeline as upstream connections.
func FromNodes[T any](nodes []T) Connection[T] {
	edges := make([]Edge[T], len(nodes))
	for i := range nodes {
		node := nodes[i]
		edges[i] = Edge[T]{Node: &node}
	}
	return Connection[T]{Edges: edges}
}

// Len reports the number of present nodes.
func (c Connection[T]) Len() int {
	n := 0
	for _, edge := range c.Edges {
		if edge.Node != nil {
			n++
		}
	}
	return n
}
