package config

import (
	"fmt"
	"strconv"
	"strings"

	pkerrors "github.com/odvcencio/panelkit/pkg/errors"
	"github.com/odvcencio/panelkit/pkg/ui/backend"
	"github.com/odvcencio/panelkit/pkg/ui/constraint"
	"github.com/odvcencio/panelkit/pkg/ui/element"
	"github.com/odvcencio/panelkit/pkg/ui/widgets"
	"gopkg.in/yaml.v3"
)

// Element kinds accepted in a layout.
const (
	KindPanel    = "panel"
	KindCheckbox = "checkbox"
	KindRadio    = "radio"
	KindLabel    = "label"
)

// ElementConfig declares one element of a layout tree.
type ElementConfig struct {
	Kind  string `yaml:"kind"`
	ID    string `yaml:"id"`
	Title string `yaml:"title,omitempty"`
	Text  string `yaml:"text,omitempty"`
	Style string `yaml:"style,omitempty"`

	Y      ConstraintConfig `yaml:"y"`
	X      ConstraintConfig `yaml:"x"`
	Height ConstraintConfig `yaml:"height,omitempty"`
	Width  ConstraintConfig `yaml:"width,omitempty"`

	// Panels only.
	Borders   *bool `yaml:"borders,omitempty"`
	MinHeight int   `yaml:"min_height,omitempty"`
	MinWidth  int   `yaml:"min_width,omitempty"`
	MaxHeight int   `yaml:"max_height,omitempty"`
	MaxWidth  int   `yaml:"max_width,omitempty"`

	Checked  bool            `yaml:"checked,omitempty"`
	Children []ElementConfig `yaml:"children,omitempty"`
}

// ConstraintConfig names a constraint variant and its value. In YAML it is
// either a mapping {kind: relative, value: 0.4} or a scalar such as
// "relative 0.4", "absolute 3" or "centered".
type ConstraintConfig struct {
	Kind  string  `yaml:"kind"`
	Value float64 `yaml:"value"`
}

// IsZero reports whether no constraint was given.
func (c ConstraintConfig) IsZero() bool {
	return c.Kind == ""
}

func (c ConstraintConfig) String() string {
	if c.Kind == string(constraint.KindCentered) {
		return c.Kind
	}
	return c.Kind + " " + strconv.FormatFloat(c.Value, 'g', -1, 64)
}

// UnmarshalYAML accepts the scalar and mapping forms.
func (c *ConstraintConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		type plain ConstraintConfig
		return value.Decode((*plain)(c))
	}
	fields := strings.Fields(value.Value)
	switch len(fields) {
	case 1:
		c.Kind, c.Value = fields[0], 0
	case 2:
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("line %d: constraint value %q: %w", value.Line, fields[1], err)
		}
		c.Kind, c.Value = fields[0], v
	default:
		return fmt.Errorf("line %d: malformed constraint %q", value.Line, value.Value)
	}
	return nil
}

// MarshalYAML writes the scalar form.
func (c ConstraintConfig) MarshalYAML() (any, error) {
	return c.String(), nil
}

// Position builds the position constraint.
func (c ConstraintConfig) Position() (constraint.Position, error) {
	return constraint.NewPosition(c.Kind, c.Value)
}

// Size builds the size constraint.
func (c ConstraintConfig) Size() (constraint.Size, error) {
	return constraint.NewSize(c.Kind, c.Value)
}

// BuildLayout constructs detached element trees from items, in order.
// Element ids must be unique across the whole layout.
func BuildLayout(items []ElementConfig) ([]element.Element, error) {
	seen := make(map[string]struct{})
	out := make([]element.Element, 0, len(items))
	for i := range items {
		e, err := buildElement(&items[i], seen)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func buildElement(ec *ElementConfig, seen map[string]struct{}) (element.Element, error) {
	id := strings.TrimSpace(ec.ID)
	if id == "" {
		return nil, layoutError(ec, "element id is required")
	}
	if _, dup := seen[id]; dup {
		return nil, layoutError(ec, "duplicate element id")
	}
	seen[id] = struct{}{}

	kind := strings.ToLower(strings.TrimSpace(ec.Kind))
	if kind != KindPanel && len(ec.Children) > 0 {
		return nil, layoutError(ec, kind+" cannot have children")
	}

	y, err := ec.Y.Position()
	if err != nil {
		return nil, wrapLayout(ec, "y", err)
	}
	x, err := ec.X.Position()
	if err != nil {
		return nil, wrapLayout(ec, "x", err)
	}

	switch kind {
	case KindPanel:
		return buildPanel(ec, id, y, x, seen)
	case KindCheckbox:
		cb, err := widgets.NewCheckbox(id, ec.Text, y, x)
		if err != nil {
			return nil, wrapLayout(ec, "checkbox", err)
		}
		cb.SetChecked(ec.Checked)
		return cb, nil
	case KindRadio:
		rb, err := widgets.NewRadioButton(id, ec.Text, y, x)
		if err != nil {
			return nil, wrapLayout(ec, "radio", err)
		}
		return rb, nil
	case KindLabel:
		l, err := widgets.NewLabel(id, ec.Text, y, x)
		if err != nil {
			return nil, wrapLayout(ec, "label", err)
		}
		if ec.Style != "" {
			style, ok := backend.ParseTextStyle(ec.Style)
			if !ok {
				return nil, layoutError(ec, fmt.Sprintf("unknown style %q", ec.Style))
			}
			l.SetStyle(style)
		}
		return l, nil
	default:
		return nil, layoutError(ec, fmt.Sprintf("unknown element kind %q", ec.Kind))
	}
}

func buildPanel(ec *ElementConfig, id string, y, x constraint.Position, seen map[string]struct{}) (element.Element, error) {
	h, err := ec.Height.Size()
	if err != nil {
		return nil, wrapLayout(ec, "height", err)
	}
	w, err := ec.Width.Size()
	if err != nil {
		return nil, wrapLayout(ec, "width", err)
	}
	p, err := element.NewPanel(id, ec.Title, element.Geometry{Y: y, X: x, Height: h, Width: w})
	if err != nil {
		return nil, wrapLayout(ec, "panel", err)
	}
	if ec.Borders != nil {
		p.SetBorders(*ec.Borders)
	}
	p.SetLimits(element.Limits{
		MinHeight: ec.MinHeight,
		MinWidth:  ec.MinWidth,
		MaxHeight: ec.MaxHeight,
		MaxWidth:  ec.MaxWidth,
	})

	for i := range ec.Children {
		child, err := buildElement(&ec.Children[i], seen)
		if err != nil {
			return nil, err
		}
		if err := p.AddChild(child); err != nil {
			return nil, wrapLayout(ec, "children", err)
		}
		if rb, ok := child.(*widgets.RadioButton); ok && ec.Children[i].Checked {
			rb.Select()
		}
	}
	return p, nil
}

func layoutError(ec *ElementConfig, msg string) error {
	return pkerrors.New(pkerrors.ErrCodeConfigInvalid, "layout: "+msg).
		WithContext("element", ec.ID).
		WithContext("kind", ec.Kind)
}

func wrapLayout(ec *ElementConfig, field string, err error) error {
	return pkerrors.Wrap(err, pkerrors.ErrCodeConfigInvalid, "layout: invalid "+field).
		WithContext("element", ec.ID).
		WithContext("kind", ec.Kind)
}

// Elements builds the configured layout, or DemoLayout when none is set.
func (c *Config) Elements() ([]element.Element, error) {
	if len(c.Layout) == 0 {
		return BuildLayout(DemoLayout(c.UI))
	}
	return BuildLayout(c.Layout)
}

// DemoLayout is a main panel holding a radio group and a checkbox group side
// by side.
func DemoLayout(ui UIConfig) []ElementConfig {
	borders := ui.Borders
	rel := func(v float64) ConstraintConfig { return ConstraintConfig{Kind: "relative", Value: v} }
	abs := func(v int) ConstraintConfig { return ConstraintConfig{Kind: "absolute", Value: float64(v)} }
	group := func(id, title string, x float64, kind, prefix, text string) ElementConfig {
		return ElementConfig{
			Kind: KindPanel, ID: id, Title: title,
			Y: abs(0), X: rel(x), Height: rel(.45), Width: rel(.45),
			MaxWidth: 40,
			Children: []ElementConfig{
				{Kind: kind, ID: prefix + "1", Text: text + " 1", Y: abs(1), X: abs(0)},
				{Kind: kind, ID: prefix + "2", Text: text + " 2", Y: abs(3), X: abs(0)},
			},
		}
	}
	return []ElementConfig{{
		Kind: KindPanel, ID: "main", Title: ui.Title, Borders: &borders,
		Y: rel(.2), X: ConstraintConfig{Kind: "centered"}, Height: rel(.7), Width: rel(.7),
		MaxWidth: 50,
		Children: []ElementConfig{
			group("radios", "Radio Buttons", .05, KindRadio, "rad", "Radio"),
			group("checks", "Check Boxes", .5, KindCheckbox, "chk", "Check"),
		},
	}}
}
