// Package offset describes padding around a rectangle.
package offset

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Offset holds the four edge distances of a rectangle.
type Offset struct {
	Left   float32 `yaml:"left"`
	Right  float32 `yaml:"right"`
	Top    float32 `yaml:"top"`
	Bottom float32 `yaml:"bottom"`
}

// Zero is Offset{0, 0, 0, 0}.
var Zero = Offset{}

func New(left, right, top, bottom float32) Offset {
	return Offset{Left: left, Right: right, Top: top, Bottom: bottom}
}

// Horizontal is Left + Right.
func (o Offset) Horizontal() float32 { return o.Left + o.Right }

// Vertical is Top + Bottom.
func (o Offset) Vertical() float32 { return o.Top + o.Bottom }

func (o Offset) Unpack() (left, right, top, bottom float32) {
	return o.Left, o.Right, o.Top, o.Bottom
}

func (o Offset) Add(p Offset) Offset {
	return Offset{o.Left + p.Left, o.Right + p.Right, o.Top + p.Top, o.Bottom + p.Bottom}
}

func (o Offset) Sub(p Offset) Offset {
	return Offset{o.Left - p.Left, o.Right - p.Right, o.Top - p.Top, o.Bottom - p.Bottom}
}

func (o Offset) Neg() Offset {
	return Offset{-o.Left, -o.Right, -o.Top, -o.Bottom}
}

func (o Offset) Mul(k int) Offset {
	f := float32(k)
	return Offset{o.Left * f, o.Right * f, o.Top * f, o.Bottom * f}
}

// Div divides every edge by k. Dividing by zero follows float rules.
func (o Offset) Div(k int) Offset {
	f := float32(k)
	return Offset{o.Left / f, o.Right / f, o.Top / f, o.Bottom / f}
}

func (o Offset) String() string {
	return fmt.Sprintf("(%v, %v, %v, %v)", o.Left, o.Right, o.Top, o.Bottom)
}

// RectOffset is the integer form used by layout code.
type RectOffset struct {
	Left, Right, Top, Bottom int
}

// Rect truncates each edge toward zero.
func (o Offset) Rect() RectOffset {
	return RectOffset{int(o.Left), int(o.Right), int(o.Top), int(o.Bottom)}
}

func FromRect(r RectOffset) Offset {
	return Offset{float32(r.Left), float32(r.Right), float32(r.Top), float32(r.Bottom)}
}

// MarshalYAML writes the offset as a flow sequence [left, right, top, bottom].
func (o Offset) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []float32{o.Left, o.Right, o.Top, o.Bottom} {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: strconv.FormatFloat(float64(v), 'g', -1, 32),
		})
	}
	return node, nil
}

// UnmarshalYAML accepts either a four-element sequence or a mapping with
// left, right, top and bottom keys. Missing keys default to zero.
func (o *Offset) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var edges []float32
		if err := node.Decode(&edges); err != nil {
			return err
		}
		if len(edges) != 4 {
			return fmt.Errorf("offset: line %d: want 4 edges, got %d", node.Line, len(edges))
		}
		*o = Offset{edges[0], edges[1], edges[2], edges[3]}
		return nil
	case yaml.MappingNode:
		type plain Offset
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*o = Offset(p)
		return nil
	}
	return fmt.Errorf("offset: line %d: want sequence or mapping", node.Line)
}
