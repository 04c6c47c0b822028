package sexp

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

// asList returns s as a list, or an error naming what was found instead.
func asList(s kicadsexp.Sexp) (*kicadsexp.List, error) {
	if l, ok := s.(*kicadsexp.List); ok {
		return l, nil
	}
	return nil, fmt.Errorf("expected list, got %T", s)
}

// FindNode searches for a child list with the given key (first symbol)
// Example: FindNode(sexp, "at") finds (at 100 50) in a list
func FindNode(s kicadsexp.Sexp, key string) (*kicadsexp.List, bool) {
	l, err := asList(s)
	if err != nil {
		return nil, false
	}

	for _, item := range l.Items() {
		if sub, ok := item.(*kicadsexp.List); ok && sub.Tag() == key {
			return sub, true
		}
	}
	return nil, false
}

// FindAllNodes finds all child lists with the given key
func FindAllNodes(s kicadsexp.Sexp, key string) []*kicadsexp.List {
	var results []*kicadsexp.List

	l, err := asList(s)
	if err != nil {
		return results
	}

	for _, item := range l.Items() {
		if sub, ok := item.(*kicadsexp.List); ok && sub.Tag() == key {
			results = append(results, sub)
		}
	}
	return results
}

// GetListItems returns all items in a list (excluding the first symbol/key)
// Example: GetListItems((layers "F.Cu" "B.Cu")) returns ["F.Cu", "B.Cu"]
func GetListItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	l, err := asList(s)
	if err != nil || l.Len() <= 1 {
		return []kicadsexp.Sexp{}
	}
	return l.Items()[1:]
}

// Typed value extraction helpers

func getItem(s kicadsexp.Sexp, index int) (kicadsexp.Sexp, error) {
	l, err := asList(s)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= l.Len() {
		return nil, fmt.Errorf("index %d out of bounds (length %d)", index, l.Len())
	}
	return l.Get(index), nil
}

// GetSymbol extracts a bare keyword at the given index.
// A quoted string at that position is an error.
func GetSymbol(s kicadsexp.Sexp, index int) (string, error) {
	item, err := getItem(s, index)
	if err != nil {
		return "", err
	}
	if sym, ok := item.(kicadsexp.Symbol); ok {
		return string(sym), nil
	}
	return "", fmt.Errorf("expected symbol at index %d, got %T", index, item)
}

// GetQuoted extracts a quoted string at the given index.
// A bare symbol at that position is an error.
func GetQuoted(s kicadsexp.Sexp, index int) (string, error) {
	item, err := getItem(s, index)
	if err != nil {
		return "", err
	}
	if q, ok := item.(kicadsexp.Quoted); ok {
		return q.Text(), nil
	}
	return "", fmt.Errorf("expected quoted string at index %d, got %T", index, item)
}

// GetFloat extracts a float64 value at the given index
func GetFloat(s kicadsexp.Sexp, index int) (float64, error) {
	str, err := GetSymbol(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}
	return val, nil
}

// GetInt extracts an int value at the given index
func GetInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := GetSymbol(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}
	return val, nil
}

// Domain-specific extraction helpers

// GetPosition extracts a PositionAngle from an (at X Y [angle]) node
func GetPosition(s kicadsexp.Sexp) (PositionAngle, error) {
	key, err := GetSymbol(s, 0)
	if err != nil {
		return PositionAngle{}, err
	}
	if key != "at" {
		return PositionAngle{}, fmt.Errorf("expected 'at', got %q", key)
	}

	pos, err := GetPositionXY(s)
	if err != nil {
		return PositionAngle{}, err
	}
	result := PositionAngle{Position: pos}

	// Angle is optional
	if angle, err := GetFloat(s, 3); err == nil {
		result.Angle = Angle(angle)
	}
	return result, nil
}

// GetPositionXY extracts just X,Y coordinates (no angle)
// Used for (start X Y), (end X Y), (center X Y), etc.
func GetPositionXY(s kicadsexp.Sexp) (Position, error) {
	x, err := GetFloat(s, 1)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse X: %w", err)
	}

	y, err := GetFloat(s, 2)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse Y: %w", err)
	}

	return Position{X: x, Y: y}, nil
}

// GetSize extracts dimensions from a (size W H) node
func GetSize(s kicadsexp.Sexp) (Size, error) {
	w, err := GetFloat(s, 1)
	if err != nil {
		return Size{}, fmt.Errorf("failed to parse width: %w", err)
	}
	h, err := GetFloat(s, 2)
	if err != nil {
		return Size{}, fmt.Errorf("failed to parse height: %w", err)
	}
	return Size{Width: w, Height: h}, nil
}

// GetStroke extracts stroke properties from (stroke ...) node
// Format: (stroke (width W) (type default|solid|dash|dot|...))
func GetStroke(s kicadsexp.Sexp) (Stroke, error) {
	stroke := Stroke{Type: StrokeDefault}

	if _, err := asList(s); err != nil {
		return stroke, fmt.Errorf("expected (stroke ...) list")
	}

	if widthNode, ok := FindNode(s, "width"); ok {
		width, err := GetFloat(widthNode, 1)
		if err != nil {
			return stroke, fmt.Errorf("failed to parse stroke width: %w", err)
		}
		stroke.Width = width
	}

	if typeNode, ok := FindNode(s, "type"); ok {
		strokeType, err := GetSymbol(typeNode, 1)
		if err != nil {
			return stroke, fmt.Errorf("failed to parse stroke type: %w", err)
		}
		stroke.Type = StrokeType(strokeType)
	}

	return stroke, nil
}

// GetLayer extracts the layer name from a (layer "name") child of s
func GetLayer(s kicadsexp.Sexp) (string, error) {
	layerNode, ok := FindNode(s, "layer")
	if !ok {
		return "", fmt.Errorf("missing required 'layer' field")
	}
	return GetQuoted(layerNode, 1)
}

// GetLayers extracts the layer names of a (layers "a" "b" ...) node
func GetLayers(s kicadsexp.Sexp) ([]string, error) {
	var layers []string
	for i, item := range GetListItems(s) {
		q, ok := item.(kicadsexp.Quoted)
		if !ok {
			return nil, fmt.Errorf("layer %d: expected quoted string, got %T", i, item)
		}
		layers = append(layers, q.Text())
	}
	return layers, nil
}

// HasSymbol checks if a list contains a specific bare symbol
func HasSymbol(s kicadsexp.Sexp, symbol string) bool {
	l, err := asList(s)
	if err != nil {
		return false
	}

	for _, item := range l.Items() {
		if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == symbol {
			return true
		}
	}
	return false
}

// GetNodeName returns the first symbol of a list (the node type/name)
func GetNodeName(s kicadsexp.Sexp) (string, error) {
	if sym, ok := s.(kicadsexp.Symbol); ok {
		return string(sym), nil
	}

	l, err := asList(s)
	if err != nil {
		return "", err
	}
	if tag := l.Tag(); tag != "" {
		return tag, nil
	}
	return "", fmt.Errorf("expected symbol at head of list")
}
