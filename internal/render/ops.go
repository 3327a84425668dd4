package render

import (
	"fmt"

	"github.com/a3tai/mcp-offer-letter/internal/geom"
)

// EraseMode selects how a token's original glyphs are removed
type EraseMode int

const (
	// EraseFill paints an opaque white rectangle
	EraseFill EraseMode = iota
	// ErasePunch clears the rectangle to transparent
	ErasePunch
)

func (m EraseMode) String() string {
	if m == ErasePunch {
		return "punch"
	}
	return "fill"
}

// MarshalText implements encoding.TextMarshaler
func (m EraseMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *EraseMode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "fill", "":
		*m = EraseFill
	case "punch":
		*m = ErasePunch
	default:
		return fmt.Errorf("unknown erase mode %q", b)
	}
	return nil
}

// OpKind is the type of a drawing instruction
type OpKind int

const (
	OpErase OpKind = iota
	OpText
)

func (k OpKind) String() string {
	if k == OpText {
		return "text"
	}
	return "erase"
}

// MarshalText lets ops serialize with readable kinds
func (k OpKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the names written by MarshalText
func (k *OpKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "erase":
		*k = OpErase
	case "text":
		*k = OpText
	default:
		return fmt.Errorf("unknown op kind %q", b)
	}
	return nil
}

// Op is a single drawing instruction in target (viewport) coordinates
type Op struct {
	Kind  OpKind `json:"kind"`
	Page  int    `json:"page,omitempty"`
	Token string `json:"token"`

	// erase
	Rect     geom.Rect `json:"rect,omitempty"`
	Mode     EraseMode `json:"mode,omitempty"`
	Original string    `json:"original,omitempty"`

	// text
	Origin geom.Point `json:"origin,omitempty"`
	Family Family     `json:"family,omitempty"`
	Size   float64    `json:"size,omitempty"`
	Text   string     `json:"text,omitempty"`
}

// Canvas is a drawing surface. Coordinates are those of the viewport the
// ops were planned for.
type Canvas interface {
	Measurer
	FillRect(r geom.Rect, mode EraseMode) error
	FillText(text string, origin geom.Point, family Family, size float64) error
}

// Apply replays ops onto c in order, stopping at the first failure
func Apply(ops []Op, c Canvas) error {
	for i, op := range ops {
		var err error
		switch op.Kind {
		case OpErase:
			err = c.FillRect(op.Rect, op.Mode)
		case OpText:
			err = c.FillText(op.Text, op.Origin, op.Family, op.Size)
		default:
			err = fmt.Errorf("unknown op kind %d", op.Kind)
		}
		if err != nil {
			return fmt.Errorf("drawing op %d (%s %q): %w", i, op.Kind, op.Token, err)
		}
	}
	return nil
}

// Recorder is a Canvas that keeps every call, for previews and tests
type Recorder struct {
	Measurer
	Ops []Op
}

// NewRecorder creates a recorder measuring with m
func NewRecorder(m Measurer) *Recorder {
	return &Recorder{Measurer: m}
}

// FillRect implements Canvas
func (r *Recorder) FillRect(rect geom.Rect, mode EraseMode) error {
	r.Ops = append(r.Ops, Op{Kind: OpErase, Rect: rect, Mode: mode})
	return nil
}

// FillText implements Canvas
func (r *Recorder) FillText(text string, origin geom.Point, family Family, size float64) error {
	r.Ops = append(r.Ops, Op{Kind: OpText, Text: text, Origin: origin, Family: family, Size: size})
	return nil
}
