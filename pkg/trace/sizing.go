package trace

import "math"

// maxSegments bounds the finger count so absurd inputs fail instead of
// producing a footprint nobody can route.
const maxSegments = 1 << 20

// Sizing is the result of fitting a serpentine into a board height.
type Sizing struct {
	Segments int     // Number of vertical fingers, even and >= 2
	Length   float64 // Total centreline length in mm
	Delta    float64 // Finger pitch (clearance + width) in mm
}

// SerpentineSizing picks the finger count for a serpentine whose fingers are
// height mm long and spaced clearance mm apart, aiming for at least
// minLength mm of trace.
//
// The raw count is rounded down to an even number, so the realised length
// can fall short of minLength by less than two finger pitches. A count
// below two is raised to two, the smallest serpentine, so a very short
// minLength yields a trace longer than asked for.
//
// Fingers no longer than the pitch (height <= clearance + width) cannot be
// laid out without the bridges overlapping and fail with a GeometryError.
func (c Calculator) SerpentineSizing(height, clearance, minLength float64) (Sizing, error) {
	if err := RequirePositive("height", height); err != nil {
		return Sizing{}, err
	}
	if err := RequirePositive("clearance", clearance); err != nil {
		return Sizing{}, err
	}
	if err := RequirePositive("min length", minLength); err != nil {
		return Sizing{}, err
	}

	delta := clearance + c.width
	pitch := height + delta
	if !(pitch > 0) || math.IsInf(pitch, 0) {
		return Sizing{}, &GeometryError{Reason: "finger height plus pitch is not positive", Height: height, Delta: delta}
	}
	if height <= delta {
		return Sizing{}, &GeometryError{Reason: "fingers shorter than their pitch", Height: height, Delta: delta}
	}

	raw := math.Floor((minLength-delta)/pitch) + 2
	if math.IsNaN(raw) || raw > maxSegments {
		return Sizing{}, &GeometryError{Reason: "required finger count exceeds board", Height: height, Delta: delta}
	}

	n := int(raw)
	if n%2 != 0 {
		n--
	}
	// A minimum length shorter than one pitch rounds down to zero fingers;
	// the smallest serpentine already satisfies it.
	if n < 2 {
		n = 2
	}

	return Sizing{
		Segments: n,
		Length:   float64(n)*pitch - delta,
		Delta:    delta,
	}, nil
}

// BoardWidth returns the width in mm a serpentine with s.Segments fingers
// occupies, including a clearance margin on both sides.
func (s Sizing) BoardWidth(clearance float64) float64 {
	return float64(s.Segments-1)*s.Delta + 2*clearance
}
