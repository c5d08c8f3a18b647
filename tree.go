package cefidata

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
)

// Tree level names from top to bottom. The first NavigableLevels of these
// are selectable; the deeper tiers hang beneath the variable category.
const (
	LevelRegion           = "region"
	LevelSubdomain        = "subdomain"
	LevelExperimentType   = "experiment_type"
	LevelOutputFrequency  = "output_frequency"
	LevelGridType         = "grid_type"
	LevelReleaseDate      = "release_date"
	LevelVariableCategory = "variable_category"
)

// NavigableLevels is the number of levels a caller can select through.
const NavigableLevels = 7

// Levels returns the tree's level names from top to bottom, including the
// variable-name tiers and the metadata leaf beneath the selectable levels.
func Levels() []string {
	return []string{
		LevelRegion,
		LevelSubdomain,
		LevelExperimentType,
		LevelOutputFrequency,
		LevelGridType,
		LevelReleaseDate,
		LevelVariableCategory,
		"variable_name",
		"variable_short_name",
		"variable_file_name",
		"file_meta_data",
	}
}

// Node is one level of the option tree: a mapping of option keys to child
// nodes, or a leaf value. Keys preserve the source document's insertion
// order, which is the order options are presented in. Nodes are never
// mutated after decoding.
type Node struct {
	keys     []string
	children map[string]*Node
	value    any
}

// Keys returns the node's option keys in document order.
func (n *Node) Keys() []string {
	keys := make([]string, len(n.keys))
	copy(keys, n.keys)
	return keys
}

// Child returns the child node for the given key.
func (n *Node) Child(key string) (*Node, bool) {
	child, ok := n.children[key]
	return child, ok
}

// Len returns the number of child nodes.
func (n *Node) Len() int {
	return len(n.keys)
}

// IsLeaf reports whether the node holds a value instead of children.
func (n *Node) IsLeaf() bool {
	return n.children == nil
}

// Value returns the leaf value, or nil for interior nodes.
func (n *Node) Value() any {
	return n.value
}

// UnmarshalJSON decodes a JSON value into the node, preserving object key
// order. Objects become interior nodes; everything else becomes a leaf.
func (n *Node) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return n.decode(dec)
}

func (n *Node) decode(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); ok && delim == '{' {
		return n.decodeObject(dec)
	}
	n.value, err = decodeValue(dec, tok)
	return err
}

func (n *Node) decodeObject(dec *json.Decoder) error {
	n.children = make(map[string]*Node)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Errorf(EINVALID, "object key is not a string")
		}
		child := &Node{}
		if err := child.decode(dec); err != nil {
			return err
		}
		if _, dup := n.children[key]; !dup {
			n.keys = append(n.keys, key)
		}
		n.children[key] = child
	}
	// Consume the closing '}'.
	_, err := dec.Token()
	return err
}

func decodeValue(dec *json.Decoder, tok json.Token) (any, error) {
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		child := &Node{}
		if err := child.decodeObject(dec); err != nil {
			return nil, err
		}
		return child, nil
	case '[':
		values := []any{}
		for dec.More() {
			t, err := dec.Token()
			if err != nil {
				return nil, err
			}
			v, err := decodeValue(dec, t)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		// Consume the closing ']'.
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return values, nil
	}
	return nil, Errorf(EINVALID, "unexpected JSON delimiter %q", delim.String())
}

// treeEnvelope is the fixed wrapper path around the per-region options in
// the portal's data tree document.
var treeEnvelope = []string{"Projects", "CEFI", "regional_mom6", "cefi_portal"}

// Tree is the decoded option tree, rooted at the per-region options.
type Tree struct {
	root *Node
}

// NewTree returns a tree rooted at the given node.
func NewTree(root *Node) *Tree {
	return &Tree{root: root}
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Len returns the number of top-level options (regions).
func (t *Tree) Len() int {
	return t.root.Len()
}

// ParseTree decodes the portal's data tree document and unwraps the fixed
// envelope path down to the per-region options. Returns EINVALID if the
// document is not valid JSON or the envelope is missing.
func ParseTree(data []byte) (*Tree, error) {
	root := &Node{}
	if err := json.Unmarshal(data, root); err != nil {
		return nil, Errorf(EINVALID, "parsing data tree: %v", err)
	}
	node := root
	for _, key := range treeEnvelope {
		child, ok := node.Child(key)
		if !ok {
			return nil, Errorf(EINVALID, "data tree missing %q", key)
		}
		node = child
	}
	return NewTree(node), nil
}

// TreeService loads the option tree.
type TreeService interface {
	// Load fetches and decodes the option tree.
	Load(ctx context.Context) (*Tree, error)
}

// Ensure TreeCache implements TreeService at compile time.
var _ TreeService = (*TreeCache)(nil)

// TreeCache loads the option tree through an underlying service at most
// once per process and reuses the result. Both outcomes are final: after a
// failed or empty load every call reports unavailable data until the
// process restarts. Safe for concurrent use.
type TreeCache struct {
	svc  TreeService
	once sync.Once
	tree *Tree
	err  error
}

// NewTreeCache creates a TreeCache around the given service.
func NewTreeCache(svc TreeService) *TreeCache {
	return &TreeCache{svc: svc}
}

// Load returns the cached tree, loading it on the first call. An absent or
// empty tree is reported as EUNAVAILABLE.
func (c *TreeCache) Load(ctx context.Context) (*Tree, error) {
	c.once.Do(func() {
		c.tree, c.err = c.svc.Load(ctx)
	})
	if c.err != nil || c.tree == nil || c.tree.Len() == 0 {
		return nil, Errorf(EUNAVAILABLE, "No CEFI data available currently.")
	}
	return c.tree, nil
}
