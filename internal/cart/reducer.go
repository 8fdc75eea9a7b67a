package cart

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
)

// LineKey identifies a cart line. Two adds with the same key merge.
type LineKey struct {
	ProductID     string
	SelectedImage string
	SelectedSize  string
}

// Ref converts the key to its wire form.
func (k LineKey) Ref() backend.CartLineRef {
	return backend.CartLineRef{
		ProductID:     k.ProductID,
		SelectedImage: k.SelectedImage,
		SelectedSize:  k.SelectedSize,
	}
}

// Line is one cart entry plus the product snapshot the backend returned with it.
type Line struct {
	LineKey
	Quantity  int
	Name      string
	UnitPrice decimal.Decimal
	Stock     int
}

// State is the cart as last confirmed by the backend.
type State struct {
	Lines []Line
}

type ActionKind int

const (
	// ActionReplace installs Lines wholesale.
	ActionReplace ActionKind = iota
	// ActionClear empties the cart.
	ActionClear
	// ActionAddLocal adds one unit of Line, merging on key.
	ActionAddLocal
	// ActionRemoveLocal removes one unit of Line.Key, dropping the line at zero.
	ActionRemoveLocal
)

type Action struct {
	Kind  ActionKind
	Lines []Line
	Line  Line
}

// Reduce applies action to state and returns the new state. state is not modified.
func Reduce(state State, action Action) State {
	switch action.Kind {
	case ActionReplace:
		return State{Lines: cloneLines(action.Lines)}
	case ActionClear:
		return State{}
	case ActionAddLocal:
		lines := cloneLines(state.Lines)
		for i := range lines {
			if lines[i].LineKey == action.Line.LineKey {
				lines[i].Quantity++
				return State{Lines: lines}
			}
		}
		added := action.Line
		added.Quantity = 1
		return State{Lines: append(lines, added)}
	case ActionRemoveLocal:
		lines := make([]Line, 0, len(state.Lines))
		for _, line := range state.Lines {
			if line.LineKey == action.Line.LineKey {
				line.Quantity--
				if line.Quantity <= 0 {
					continue
				}
			}
			lines = append(lines, line)
		}
		return State{Lines: lines}
	default:
		return State{Lines: cloneLines(state.Lines)}
	}
}

// LinesFromBackend converts the server cart into local lines.
func LinesFromBackend(c *backend.Cart) []Line {
	if c == nil {
		return nil
	}
	lines := make([]Line, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, Line{
			LineKey: LineKey{
				ProductID:     item.Product.ID,
				SelectedImage: item.SelectedImage,
				SelectedSize:  item.SelectedSize,
			},
			Quantity:  item.Quantity,
			Name:      item.Product.Name,
			UnitPrice: item.Product.EffectivePrice(),
			Stock:     item.Product.Stock,
		})
	}
	return lines
}

// ItemCount is the number of units across all lines.
func (s State) ItemCount() int {
	total := 0
	for _, line := range s.Lines {
		total += line.Quantity
	}
	return total
}

func cloneLines(lines []Line) []Line {
	if len(lines) == 0 {
		return nil
	}
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
