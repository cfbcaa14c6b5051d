package encode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/bft-labs/houlog/pkg/geom"
	"github.com/bft-labs/houlog/pkg/recording"
)

// ErrEncoding is returned when a recording cannot be written as JSON or a
// document cannot be read back.
var ErrEncoding = errors.New("houlog: encoding failure")

// Document is an encoded recording.
type Document []byte

// String returns the document text.
func (d Document) String() string {
	return string(d)
}

// Encode writes rec as a single JSON document. A nil recording, or one with
// nothing logged, encodes to {}.
func Encode(rec *recording.Recording, opts ...Option) (Document, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	w := writer{nonFinite: o.nonFinite}
	w.buf.WriteByte('{')
	if rec != nil {
		first := true
		for i, f := range rec.Frames() {
			if f.Empty() {
				continue
			}
			if !first {
				w.buf.WriteByte(',')
			}
			first = false
			w.frame = i
			w.str(strconv.Itoa(i))
			w.buf.WriteByte(':')
			if err := w.writeFrame(f); err != nil {
				return nil, err
			}
		}
	}
	w.buf.WriteByte('}')

	if o.indent == "" && o.prefix == "" {
		return Document(w.buf.Bytes()), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, w.buf.Bytes(), o.prefix, o.indent); err != nil {
		return nil, fmt.Errorf("%w: indent: %v", ErrEncoding, err)
	}
	return Document(out.Bytes()), nil
}

// EncodeShape writes a single tagged shape, as it appears inside a document.
func EncodeShape(s geom.Shape, opts ...Option) ([]byte, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	w := writer{nonFinite: o.nonFinite, frame: -1}
	if err := w.writeShape(s); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

// group collects the entries of one frame that share a name.
type group struct {
	name   string
	shapes []geom.Shape
}

// groupEntries groups by name, keeping first-occurrence order across names
// and logging order within each name.
func groupEntries(entries []recording.Entry) []group {
	index := make(map[string]int, len(entries))
	groups := make([]group, 0, len(entries))
	for _, e := range entries {
		i, ok := index[e.Name]
		if !ok {
			i = len(groups)
			index[e.Name] = i
			groups = append(groups, group{name: e.Name})
		}
		groups[i].shapes = append(groups[i].shapes, e.Shape)
	}
	return groups
}

type writer struct {
	buf       bytes.Buffer
	nonFinite NonFinitePolicy
	frame     int
	entry     string
}

func (w *writer) writeFrame(f recording.Frame) error {
	w.buf.WriteByte('{')
	for gi, g := range groupEntries(f.Entries) {
		if gi > 0 {
			w.buf.WriteByte(',')
		}
		w.entry = g.name
		w.str(g.name)
		w.buf.WriteByte(':')

		if len(g.shapes) == 1 {
			if err := w.writeShape(g.shapes[0]); err != nil {
				return err
			}
			continue
		}
		w.buf.WriteByte('[')
		for si, s := range g.shapes {
			if si > 0 {
				w.buf.WriteByte(',')
			}
			if err := w.writeShape(s); err != nil {
				return err
			}
		}
		w.buf.WriteByte(']')
	}
	w.buf.WriteByte('}')
	return nil
}

func (w *writer) writeShape(s geom.Shape) error {
	if s == nil {
		return w.fail("nil shape")
	}
	w.buf.WriteString(`{"type":`)
	w.str(string(s.Kind()))

	switch v := s.(type) {
	case geom.Point:
		w.buf.WriteByte(',')
		if err := w.xyz(v.Vec()); err != nil {
			return err
		}
	case geom.Line:
		w.buf.WriteString(`,"start":`)
		if err := w.vec(v.Start); err != nil {
			return err
		}
		w.buf.WriteString(`,"end":`)
		if err := w.vec(v.End); err != nil {
			return err
		}
	case geom.Polyline:
		if err := w.points(v.Points); err != nil {
			return err
		}
	case geom.Polygon:
		if err := w.points(v.Points); err != nil {
			return err
		}
	case geom.Transform:
		w.buf.WriteString(`,"matrix":[`)
		for i, f := range v {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			if err := w.num(f); err != nil {
				return err
			}
		}
		w.buf.WriteByte(']')
	default:
		return w.fail(fmt.Sprintf("unsupported shape %T", s))
	}
	w.buf.WriteByte('}')
	return nil
}

func (w *writer) points(pts []geom.Vec3) error {
	w.buf.WriteString(`,"points":[`)
	for i, p := range pts {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		if err := w.vec(p); err != nil {
			return err
		}
	}
	w.buf.WriteByte(']')
	return nil
}

func (w *writer) vec(v geom.Vec3) error {
	w.buf.WriteByte('{')
	if err := w.xyz(v); err != nil {
		return err
	}
	w.buf.WriteByte('}')
	return nil
}

func (w *writer) xyz(v geom.Vec3) error {
	w.buf.WriteString(`"x":`)
	if err := w.num(v.X); err != nil {
		return err
	}
	w.buf.WriteString(`,"y":`)
	if err := w.num(v.Y); err != nil {
		return err
	}
	w.buf.WriteString(`,"z":`)
	return w.num(v.Z)
}

func (w *writer) num(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		if w.nonFinite == NonFiniteNull {
			w.buf.WriteString("null")
			return nil
		}
		return w.fail(fmt.Sprintf("non-finite value %v", f))
	}
	b, err := json.Marshal(f)
	if err != nil {
		return w.fail(err.Error())
	}
	w.buf.Write(b)
	return nil
}

func (w *writer) str(s string) {
	// Marshalling a string cannot fail.
	b, _ := json.Marshal(s)
	w.buf.Write(b)
}

func (w *writer) fail(reason string) error {
	if w.frame < 0 {
		return fmt.Errorf("%w: %s", ErrEncoding, reason)
	}
	return fmt.Errorf("%w: frame %d entry %q: %s", ErrEncoding, w.frame, w.entry, reason)
}
