package resource

// Tree is an immutable ancestor/descendant index over a snapshot of
// resources. Nodes live in an arena addressed by index, with parent and
// child relations kept as index references, so concurrent readers can
// traverse freely without lifetime hazards. A fresh tree is built per
// resolution from the latest committed resource rows.
type Tree struct {
	nodes  []treeNode
	byID   map[uint]int
	byCode map[codeKey]int
}

type treeNode struct {
	resource *Resource
	parent   int // arena index, -1 for roots
	children []int
}

type codeKey struct {
	clientID uint
	code     string
}

// NewTree indexes the given resources. Rows pointing at a parent outside
// the snapshot are treated as roots; structural cycles are not rejected
// here but are caught by the traversal guards.
func NewTree(resources []*Resource) *Tree {
	t := &Tree{
		nodes:  make([]treeNode, 0, len(resources)),
		byID:   make(map[uint]int, len(resources)),
		byCode: make(map[codeKey]int, len(resources)),
	}

	for _, r := range resources {
		idx := len(t.nodes)
		t.nodes = append(t.nodes, treeNode{resource: r, parent: -1})
		t.byID[r.ID()] = idx
		t.byCode[codeKey{clientID: r.ClientID(), code: r.Code()}] = idx
	}

	for idx := range t.nodes {
		parentID := t.nodes[idx].resource.ParentID()
		if parentID == nil {
			continue
		}
		parentIdx, ok := t.byID[*parentID]
		if !ok || parentIdx == idx {
			continue
		}
		t.nodes[idx].parent = parentIdx
		t.nodes[parentIdx].children = append(t.nodes[parentIdx].children, idx)
	}

	return t
}

// Get returns the resource with the given id.
func (t *Tree) Get(id uint) (*Resource, bool) {
	idx, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return t.nodes[idx].resource, true
}

// ResolveByCode maps a (client, code) pair onto a resource id.
func (t *Tree) ResolveByCode(clientID uint, code string) (uint, error) {
	idx, ok := t.byCode[codeKey{clientID: clientID, code: code}]
	if !ok {
		return 0, ErrResourceNotFound
	}
	return t.nodes[idx].resource.ID(), nil
}

// DescendantsOf returns the ids of every node reachable through child
// links from the given resource, excluding the node itself. The walk is
// guarded against revisits: if the underlying rows encode a cycle the
// traversal aborts with ErrTreeCorrupted instead of looping.
func (t *Tree) DescendantsOf(id uint) ([]uint, error) {
	start, ok := t.byID[id]
	if !ok {
		return nil, ErrResourceNotFound
	}

	visited := make(map[int]bool, len(t.nodes))
	visited[start] = true

	var out []uint
	queue := append([]int(nil), t.nodes[start].children...)
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]

		if visited[idx] {
			return nil, ErrTreeCorrupted
		}
		visited[idx] = true

		out = append(out, t.nodes[idx].resource.ID())
		queue = append(queue, t.nodes[idx].children...)
	}

	return out, nil
}

// IsDescendant reports whether candidate sits strictly below ancestor.
// The parent-chain walk is bounded by the arena size as a corruption guard.
func (t *Tree) IsDescendant(ancestorID, candidateID uint) (bool, error) {
	ancestorIdx, ok := t.byID[ancestorID]
	if !ok {
		return false, ErrResourceNotFound
	}
	idx, ok := t.byID[candidateID]
	if !ok {
		return false, ErrResourceNotFound
	}

	for steps := 0; idx >= 0; steps++ {
		if steps > len(t.nodes) {
			return false, ErrTreeCorrupted
		}
		idx = t.nodes[idx].parent
		if idx == ancestorIdx {
			return true, nil
		}
	}
	return false, nil
}

// Size returns the number of indexed resources.
func (t *Tree) Size() int {
	return len(t.nodes)
}
