package menu

import "strings"

// Node is a level or action reachable from the city list. IDs nest with ':'
// so "city:delete:confirm" is the confirm entry of the "city:delete" level.
type Node struct {
	ID       string
	Title    func(Context) string
	Loader   Loader
	Action   Action
	Children map[string]*Node
}

// Registry indexes menu nodes by ID.
type Registry struct {
	nodes map[string]*Node
}

// BuildRegistry links the city nodes into a tree under the city list.
func BuildRegistry() *Registry {
	r := &Registry{nodes: make(map[string]*Node)}
	root := r.node("root")
	root.Loader, root.Action = loadCityList, CityChooseAction

	defs := cityNodes()
	for _, def := range defs {
		n := r.node(def.ID)
		n.Title, n.Loader, n.Action = def.Title, def.Loader, def.Action
	}
	for _, def := range defs {
		parent, key := parentKey(def.ID)
		r.node(parent).Children[key] = r.nodes[def.ID]
	}
	return r
}

// node returns the node for id, creating an empty one on first use.
func (r *Registry) node(id string) *Node {
	n, ok := r.nodes[id]
	if !ok {
		n = &Node{ID: id, Children: make(map[string]*Node)}
		r.nodes[id] = n
	}
	return n
}

// Root returns the city list node.
func (r *Registry) Root() *Node {
	return r.nodes["root"]
}

// Find locates a node by ID.
func (r *Registry) Find(id string) (*Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// Child resolves the entry key of level parentID.
func (r *Registry) Child(parentID, key string) (*Node, bool) {
	parent, ok := r.nodes[parentID]
	if !ok {
		return nil, false
	}
	n, ok := parent.Children[key]
	return n, ok
}

// parentKey splits id at its last ':'. Top-level IDs hang off the root.
func parentKey(id string) (parent, key string) {
	idx := strings.LastIndexByte(id, ':')
	if idx < 0 {
		return "root", id
	}
	return id[:idx], id[idx+1:]
}
