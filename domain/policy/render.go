package policy

import (
	"fmt"

	"raidash/internal/localization"
)

// Orientation controls how a split lays out its two branches
type Orientation int

const (
	// Vertical stacks one row per branch: (label, subtree)
	Vertical Orientation = iota
	// Horizontal puts both labels on the first row and both subtrees on the second
	Horizontal
)

// Flip returns the other orientation
func (o Orientation) Flip() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ParseOrientation accepts "vertical" (or empty) and "horizontal"
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "", "vertical":
		return Vertical, nil
	case "horizontal":
		return Horizontal, nil
	}
	return Vertical, fmt.Errorf("unknown orientation %q", s)
}

// Kind discriminates the rendered table variants
type Kind int

const (
	KindPlaceholder Kind = iota
	KindLeaf
	KindGrid
)

// Labels are the localized templates used while rendering
type Labels struct {
	NoData      string
	SampleCount string
	Recommended string
	Left        string
	Right       string
	Size        string
}

// LabelsFrom adapts a localization table
func LabelsFrom(s localization.TreatmentPolicyStrings) Labels {
	return Labels{
		NoData:      s.NoData,
		SampleCount: s.NSample,
		Recommended: s.Recommended,
		Left:        s.Left,
		Right:       s.Right,
		Size:        s.Size,
	}
}

// Cell is a grid cell: either a text label or a nested table
type Cell struct {
	Label string `json:"label,omitempty"`
	Child *Table `json:"child,omitempty"`
}

// Table is the rendered form of a policy (sub)tree
type Table struct {
	Kind        Kind        `json:"kind"`
	Text        string      `json:"text,omitempty"`
	Lines       []string    `json:"lines,omitempty"`
	Orientation Orientation `json:"orientation"`
	Nested      bool        `json:"nested"`
	Rows        [2][2]Cell  `json:"rows"`
}

// IsGrid reports whether the table is a 2x2 split grid
func (t Table) IsGrid() bool { return t.Kind == KindGrid }

// Render turns a policy tree into nested tables. Children are rendered with
// the flipped orientation and marked nested.
func Render(node *Node, orientation Orientation, nested bool, labels Labels) Table {
	if node == nil {
		return Table{Kind: KindPlaceholder, Text: labels.NoData, Orientation: orientation, Nested: nested}
	}
	if node.Leaf {
		return Table{
			Kind:        KindLeaf,
			Orientation: orientation,
			Nested:      nested,
			Lines: []string{
				localization.Format(labels.SampleCount, node.NSamples),
				localization.Format(labels.Recommended, node.Treatment),
			},
		}
	}

	leftLabel := localization.Format(labels.Left, node.Feature, node.Threshold)
	rightLabel := localization.Format(labels.Right, node.Feature, node.Threshold)
	left := Render(node.Left, orientation.Flip(), true, labels)
	right := Render(node.Right, orientation.Flip(), true, labels)

	t := Table{Kind: KindGrid, Orientation: orientation, Nested: nested}
	if orientation == Vertical {
		t.Rows = [2][2]Cell{
			{{Label: leftLabel}, {Child: &left}},
			{{Label: rightLabel}, {Child: &right}},
		}
	} else {
		t.Rows = [2][2]Cell{
			{{Label: leftLabel}, {Label: rightLabel}},
			{{Child: &left}, {Child: &right}},
		}
	}
	return t
}
