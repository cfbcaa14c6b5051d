package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/bft-labs/houlog/pkg/geom"
	"github.com/bft-labs/houlog/pkg/recording"
)

// MaxFrames bounds the frame keys Decode accepts. Keys are dense indices,
// so a larger key would allocate that many empty frames.
const MaxFrames = 1 << 20

// number decodes a JSON number, reading null as NaN. set records whether the
// field was present at all.
type number struct {
	v   float64
	set bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	n.set = true
	if bytes.Equal(b, []byte("null")) {
		n.v = math.NaN()
		return nil
	}
	return json.Unmarshal(b, &n.v)
}

type vecJSON struct {
	X number `json:"x"`
	Y number `json:"y"`
	Z number `json:"z"`
}

func (v vecJSON) vec() (geom.Vec3, error) {
	if !v.X.set || !v.Y.set || !v.Z.set {
		return geom.Vec3{}, fmt.Errorf("position without x, y or z")
	}
	return geom.Vec3{X: v.X.v, Y: v.Y.v, Z: v.Z.v}, nil
}

// shapeJSON is the union of all tagged shape fields.
type shapeJSON struct {
	Type   string    `json:"type"`
	X      number    `json:"x"`
	Y      number    `json:"y"`
	Z      number    `json:"z"`
	Start  *vecJSON  `json:"start"`
	End    *vecJSON  `json:"end"`
	Points []vecJSON `json:"points"`
	Matrix []number  `json:"matrix"`
}

func (s shapeJSON) shape() (geom.Shape, error) {
	switch geom.Kind(s.Type) {
	case geom.KindPoint:
		v, err := vecJSON{X: s.X, Y: s.Y, Z: s.Z}.vec()
		if err != nil {
			return nil, err
		}
		return geom.Point(v), nil
	case geom.KindLine:
		if s.Start == nil || s.End == nil {
			return nil, fmt.Errorf("line without start or end")
		}
		start, err := s.Start.vec()
		if err != nil {
			return nil, fmt.Errorf("start: %w", err)
		}
		end, err := s.End.vec()
		if err != nil {
			return nil, fmt.Errorf("end: %w", err)
		}
		return geom.Line{Start: start, End: end}, nil
	case geom.KindPolyline:
		pts, err := vecs(s.Points)
		if err != nil {
			return nil, err
		}
		return geom.Polyline{Points: pts}, nil
	case geom.KindPolygon:
		pts, err := vecs(s.Points)
		if err != nil {
			return nil, err
		}
		return geom.Polygon{Points: pts}, nil
	case geom.KindTransform:
		if len(s.Matrix) != 16 {
			return nil, fmt.Errorf("transform matrix has %d values, want 16", len(s.Matrix))
		}
		var t geom.Transform
		for i, v := range s.Matrix {
			t[i] = v.v
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown shape type %q", s.Type)
	}
}

func vecs(in []vecJSON) ([]geom.Vec3, error) {
	out := make([]geom.Vec3, len(in))
	for i, v := range in {
		p, err := v.vec()
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// Decode parses a document produced by Encode. Frames missing from the
// document, including those before the first key, come back empty. Entries
// are restored in document order.
func Decode(doc Document) (*recording.Recording, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var frames []recording.Frame
	seen := make(map[int]bool)
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
		}
		idx, err := strconv.Atoi(key.(string))
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: invalid frame key %q", ErrEncoding, key)
		}
		if idx >= MaxFrames {
			return nil, fmt.Errorf("%w: frame key %d exceeds limit %d", ErrEncoding, idx, MaxFrames-1)
		}
		if seen[idx] {
			return nil, fmt.Errorf("%w: duplicate frame key %d", ErrEncoding, idx)
		}
		seen[idx] = true
		for len(frames) <= idx {
			frames = append(frames, recording.Frame{})
		}

		entries, err := decodeFrame(dec, idx)
		if err != nil {
			return nil, err
		}
		frames[idx].Entries = entries
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrEncoding)
	}

	return recording.FromFrames(frames), nil
}

func decodeFrame(dec *json.Decoder, frame int) ([]recording.Entry, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var entries []recording.Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: frame %d: %v", ErrEncoding, frame, err)
		}
		name := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: frame %d entry %q: %v", ErrEncoding, frame, name, err)
		}

		var items []shapeJSON
		trimmed := bytes.TrimLeft(raw, " \t\r\n")
		if len(trimmed) > 0 && trimmed[0] == '[' {
			err = json.Unmarshal(raw, &items)
		} else {
			items = make([]shapeJSON, 1)
			err = json.Unmarshal(raw, &items[0])
		}
		if err != nil {
			return nil, fmt.Errorf("%w: frame %d entry %q: %v", ErrEncoding, frame, name, err)
		}

		for _, it := range items {
			s, err := it.shape()
			if err != nil {
				return nil, fmt.Errorf("%w: frame %d entry %q: %v", ErrEncoding, frame, name, err)
			}
			entries = append(entries, recording.Entry{Name: name, Shape: s})
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return entries, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q, got %v", ErrEncoding, want, tok)
	}
	return nil
}
