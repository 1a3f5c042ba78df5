// Package policy models causal treatment policy trees and renders them into
// a presentation-neutral nested table.
package policy

import (
	"bytes"
	"encoding/json"
	"fmt"

	"raidash/domain/core"
)

// MaxDepth bounds the depth of trees accepted by Validate
const MaxDepth = 64

// Node is a policy tree node. Leaf nodes carry NSamples and Treatment;
// internal nodes carry Feature, Threshold and exactly two children.
type Node struct {
	Leaf      bool
	NSamples  int
	Treatment string
	Feature   string
	Threshold float64
	Left      *Node
	Right     *Node
}

type leafJSON struct {
	Leaf      bool   `json:"leaf"`
	NSamples  int    `json:"n_samples"`
	Treatment string `json:"treatment"`
}

type internalJSON struct {
	Leaf      bool    `json:"leaf"`
	Feature   string  `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      *Node   `json:"left"`
	Right     *Node   `json:"right"`
}

// NewLeaf builds a leaf node
func NewLeaf(nSamples int, treatment string) *Node {
	return &Node{Leaf: true, NSamples: nSamples, Treatment: treatment}
}

// NewSplit builds an internal node
func NewSplit(feature string, threshold float64, left, right *Node) *Node {
	return &Node{Feature: feature, Threshold: threshold, Left: left, Right: right}
}

func (n Node) MarshalJSON() ([]byte, error) {
	if n.Leaf {
		return json.Marshal(leafJSON{Leaf: true, NSamples: n.NSamples, Treatment: n.Treatment})
	}
	return json.Marshal(internalJSON{Feature: n.Feature, Threshold: n.Threshold, Left: n.Left, Right: n.Right})
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var probe struct {
		Leaf bool `json:"leaf"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Leaf {
		var l leafJSON
		if err := json.Unmarshal(data, &l); err != nil {
			return err
		}
		*n = Node{Leaf: true, NSamples: l.NSamples, Treatment: l.Treatment}
		return nil
	}
	var in internalJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*n = Node{Feature: in.Feature, Threshold: in.Threshold, Left: in.Left, Right: in.Right}
	return nil
}

// ParseTree decodes and validates a policy tree. JSON null yields a nil tree.
func ParseTree(data []byte) (*Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, core.NewTreeError("root", "empty document")
	}
	var root *Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidTree, err)
	}
	if root == nil {
		return nil, nil
	}
	if err := Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

// Validate checks the strict binary shape: internal nodes have both children,
// leaves have none, sample counts are non-negative and depth is bounded.
func Validate(root *Node) error {
	return validate(root, "root", 0)
}

func validate(n *Node, path string, depth int) error {
	if n == nil {
		return core.NewTreeError(path, "missing node")
	}
	if depth > MaxDepth {
		return core.NewTreeError(path, fmt.Sprintf("deeper than %d levels", MaxDepth))
	}
	if n.Leaf {
		if n.Left != nil || n.Right != nil {
			return core.NewTreeError(path, "leaf has children")
		}
		if n.NSamples < 0 {
			return core.NewTreeError(path, "negative n_samples")
		}
		return nil
	}
	if n.Feature == "" {
		return core.NewTreeError(path, "split without feature")
	}
	if err := validate(n.Left, path+".left", depth+1); err != nil {
		return err
	}
	return validate(n.Right, path+".right", depth+1)
}

// Leaves returns the leaves in left-to-right order
func (n *Node) Leaves() []*Node {
	if n == nil {
		return nil
	}
	if n.Leaf {
		return []*Node{n}
	}
	return append(n.Left.Leaves(), n.Right.Leaves()...)
}

// Count returns the number of nodes in the tree
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	return 1 + n.Left.Count() + n.Right.Count()
}

// Recommend walks the tree with the given feature values and returns the
// leaf that applies. A value equal to the threshold goes left.
func (n *Node) Recommend(values map[string]float64) (*Node, error) {
	cur := n
	for depth := 0; cur != nil; depth++ {
		if cur.Leaf {
			return cur, nil
		}
		if depth > MaxDepth {
			break
		}
		v, ok := values[cur.Feature]
		if !ok {
			return nil, fmt.Errorf("%w: %s", core.ErrUnknownFeature, cur.Feature)
		}
		if v <= cur.Threshold {
			cur = cur.Left
		} else {
			cur = cur.Right
		}
	}
	return nil, core.NewTreeError("root", "no leaf reached")
}
