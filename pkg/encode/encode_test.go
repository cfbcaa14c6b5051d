package encode

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/bft-labs/houlog/pkg/geom"
	"github.com/bft-labs/houlog/pkg/recording"
)

func TestEncode_PointThenLine(t *testing.T) {
	rec := recording.New()
	rec.Log("p", geom.Point{X: 1, Y: 2, Z: 3})
	rec.Advance()
	rec.Log("l", geom.Line{Start: geom.V3(0, 0, 0), End: geom.V3(1, 1, 1)})

	doc, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := `{"0":{"p":{"type":"point","x":1,"y":2,"z":3}},` +
		`"1":{"l":{"type":"line","start":{"x":0,"y":0,"z":0},"end":{"x":1,"y":1,"z":1}}}}`
	if doc.String() != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", doc, want)
	}

	var generic map[string]map[string]map[string]any
	if err := json.Unmarshal(doc, &generic); err != nil {
		t.Fatalf("document is not valid JSON: %v", err)
	}
	if len(generic) != 2 {
		t.Errorf("frame keys = %d, want 2", len(generic))
	}
	if generic["0"]["p"]["type"] != "point" {
		t.Errorf(`frame 0 "p" type = %v, want point`, generic["0"]["p"]["type"])
	}
	if generic["1"]["l"]["type"] != "line" {
		t.Errorf(`frame 1 "l" type = %v, want line`, generic["1"]["l"]["type"])
	}
}

func TestEncode_Empty(t *testing.T) {
	tests := []struct {
		name string
		rec  *recording.Recording
	}{
		{"nil recording", nil},
		{"new recording", recording.New()},
		{"only empty frames", func() *recording.Recording {
			r := recording.New()
			r.Advance()
			r.Advance()
			return r
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Encode(tt.rec)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if doc.String() != "{}" {
				t.Errorf("Encode() = %s, want {}", doc)
			}
		})
	}
}

func TestEncode_SkipsEmptyFramesKeepsIndices(t *testing.T) {
	rec := recording.New()
	rec.Advance()
	rec.Advance()
	rec.Log("q", geom.Point{})

	doc, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := `{"2":{"q":{"type":"point","x":0,"y":0,"z":0}}}`
	if doc.String() != want {
		t.Errorf("Encode() = %s, want %s", doc, want)
	}
}

func TestEncode_AllKinds(t *testing.T) {
	rec := recording.New()
	rec.Log("poly", geom.Polyline{Points: []geom.Vec3{geom.V3(0, 0, 0), geom.V3(1.5, 0, 0)}})
	rec.Log("gon", geom.Polygon{Points: []geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(0, 1, 0)}})
	rec.Log("xf", geom.Translation(geom.V3(7, 8, 9)))

	doc, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := `{"0":{` +
		`"poly":{"type":"polyline","points":[{"x":0,"y":0,"z":0},{"x":1.5,"y":0,"z":0}]},` +
		`"gon":{"type":"polygon","points":[{"x":0,"y":0,"z":0},{"x":1,"y":0,"z":0},{"x":0,"y":1,"z":0}]},` +
		`"xf":{"type":"transform","matrix":[1,0,0,0,0,1,0,0,0,0,1,0,7,8,9,1]}` +
		`}}`
	if doc.String() != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", doc, want)
	}
}

func TestEncode_DuplicateNamesBecomeArrays(t *testing.T) {
	rec := recording.New()
	rec.Log("a", geom.Point{X: 1})
	rec.Log("b", geom.Point{X: 2})
	rec.Log("a", geom.Point{X: 3})

	doc, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := `{"0":{"a":[{"type":"point","x":1,"y":0,"z":0},{"type":"point","x":3,"y":0,"z":0}],` +
		`"b":{"type":"point","x":2,"y":0,"z":0}}}`
	if doc.String() != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", doc, want)
	}

	got, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if diff := cmp.Diff(triples(rec), triples(got), sortTriples); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	rec := randomRecording(rand.New(rand.NewSource(1)), 40)

	a, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	b, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("encoding the same recording twice produced different bytes")
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 25; trial++ {
		rec := randomRecording(rng, 20)

		doc, err := Encode(rec)
		if err != nil {
			t.Fatalf("trial %d: Encode() error = %v", trial, err)
		}
		got, err := Decode(doc)
		if err != nil {
			t.Fatalf("trial %d: Decode() error = %v", trial, err)
		}

		opts := cmp.Options{sortTriples, cmpopts.EquateApprox(0, 1e-12), cmpopts.EquateEmpty()}
		if diff := cmp.Diff(triples(rec), triples(got), opts); diff != "" {
			t.Fatalf("trial %d: round trip mismatch (-want +got):\n%s", trial, diff)
		}
	}
}

func TestEncode_ThousandPointsHundredFrames(t *testing.T) {
	rec := recording.New()
	for i := 0; i < 1000; i++ {
		rec.Log("pt"+strconv.Itoa(i%10), geom.Point{X: float64(i)})
		if i%10 == 9 {
			rec.Advance()
		}
	}

	doc, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var generic map[string]map[string]json.RawMessage
	if err := json.Unmarshal(doc, &generic); err != nil {
		t.Fatalf("document is not valid JSON: %v", err)
	}
	if len(generic) != 100 {
		t.Fatalf("frame keys = %d, want 100", len(generic))
	}
	for k, entries := range generic {
		if len(entries) != 10 {
			t.Errorf("frame %s has %d entries, want 10", k, len(entries))
		}
	}
}

func TestEncode_NonFinite(t *testing.T) {
	rec := recording.New()
	rec.Log("ok", geom.Point{X: 1})
	rec.Advance()
	rec.Log("bad", geom.Point{X: math.NaN(), Y: math.Inf(1)})

	_, err := Encode(rec)
	if !errors.Is(err, ErrEncoding) {
		t.Fatalf("Encode() error = %v, want ErrEncoding", err)
	}

	doc, err := Encode(rec, WithNonFinite(NonFiniteNull))
	if err != nil {
		t.Fatalf("Encode(null policy) error = %v", err)
	}
	want := `{"0":{"ok":{"type":"point","x":1,"y":0,"z":0}},"1":{"bad":{"type":"point","x":null,"y":null,"z":0}}}`
	if doc.String() != want {
		t.Errorf("Encode(null policy) = %s, want %s", doc, want)
	}

	got, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	p := got.Frame(1).Entries[0].Shape.(geom.Point)
	if !math.IsNaN(p.X) || !math.IsNaN(p.Y) || p.Z != 0 {
		t.Errorf("decoded point = %+v, want NaN, NaN, 0", p)
	}
}

func TestEncode_Indent(t *testing.T) {
	rec := recording.New()
	rec.Log("p", geom.Point{X: 1})

	doc, err := Encode(rec, WithIndent("", "  "))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Contains(doc, []byte("\n  \"0\": {")) {
		t.Errorf("indented document missing expected layout:\n%s", doc)
	}

	compact, _ := Encode(rec)
	var buf bytes.Buffer
	if err := json.Compact(&buf, doc); err != nil {
		t.Fatalf("Compact() error = %v", err)
	}
	if buf.String() != compact.String() {
		t.Errorf("compacted indent = %s, want %s", buf.String(), compact)
	}
}

func TestEncodeShape(t *testing.T) {
	b, err := EncodeShape(geom.Point{X: 1, Y: 2, Z: 3})
	if err != nil {
		t.Fatalf("EncodeShape() error = %v", err)
	}
	if string(b) != `{"type":"point","x":1,"y":2,"z":3}` {
		t.Errorf("EncodeShape() = %s", b)
	}

	if _, err := EncodeShape(nil); !errors.Is(err, ErrEncoding) {
		t.Errorf("EncodeShape(nil) error = %v, want ErrEncoding", err)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not an object", `[]`},
		{"bad frame key", `{"x":{}}`},
		{"negative frame key", `{"-1":{}}`},
		{"unknown type", `{"0":{"a":{"type":"mesh"}}}`},
		{"short matrix", `{"0":{"a":{"type":"transform","matrix":[1,2,3]}}}`},
		{"line missing end", `{"0":{"a":{"type":"line","start":{"x":0,"y":0,"z":0}}}}`},
		{"duplicate frame", `{"0":{"a":{"type":"point","x":0,"y":0,"z":0}},"0":{"b":{"type":"point","x":0,"y":0,"z":0}}}`},
		{"duplicate after empty frame", `{"0":{},"0":{"a":{"type":"point","x":1,"y":2,"z":3}}}`},
		{"frame key over limit", `{"1048576":{}}`},
		{"huge frame key", `{"1099511627776":{}}`},
		{"point without coordinates", `{"0":{"a":{"type":"point"}}}`},
		{"point missing z", `{"0":{"a":{"type":"point","x":1,"y":2}}}`},
		{"line start missing y", `{"0":{"a":{"type":"line","start":{"x":0,"z":0},"end":{"x":1,"y":1,"z":1}}}}`},
		{"polyline vertex without coordinates", `{"0":{"a":{"type":"polyline","points":[{"x":0,"y":0,"z":0},{}]}}}`},
		{"trailing data", `{} {}`},
		{"truncated", `{"0":{"a":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(Document(tt.doc))
			if !errors.Is(err, ErrEncoding) {
				t.Errorf("Decode() error = %v, want ErrEncoding", err)
			}
		})
	}
}

func TestDecode_FrameKeyAtLimit(t *testing.T) {
	key := strconv.Itoa(MaxFrames - 1)
	rec, err := Decode(Document(`{"` + key + `":{"a":{"type":"point","x":1,"y":2,"z":3}}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if rec.Len() != MaxFrames {
		t.Errorf("Len() = %d, want %d", rec.Len(), MaxFrames)
	}
}

func TestParseNonFinitePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    NonFinitePolicy
		wantErr bool
	}{
		{"", NonFiniteFail, false},
		{"fail", NonFiniteFail, false},
		{"null", NonFiniteNull, false},
		{"zero", NonFiniteFail, true},
	}
	for _, tt := range tests {
		got, err := ParseNonFinitePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseNonFinitePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseNonFinitePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// triple is a (frame, name, shape) fact from a recording.
type triple struct {
	Frame int
	Name  string
	Seq   int // occurrence of Name within the frame
	Shape geom.Shape
}

var sortTriples = cmpopts.SortSlices(func(a, b triple) bool {
	if a.Frame != b.Frame {
		return a.Frame < b.Frame
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Seq < b.Seq
})

func triples(r *recording.Recording) []triple {
	var out []triple
	for i, f := range r.Frames() {
		seen := map[string]int{}
		for _, e := range f.Entries {
			out = append(out, triple{Frame: i, Name: e.Name, Seq: seen[e.Name], Shape: e.Shape})
			seen[e.Name]++
		}
	}
	return out
}

func randomVec(rng *rand.Rand) geom.Vec3 {
	return geom.V3(rng.NormFloat64()*100, rng.NormFloat64()*100, rng.NormFloat64()*100)
}

func randomShape(rng *rand.Rand) geom.Shape {
	switch rng.Intn(5) {
	case 0:
		return geom.Point(randomVec(rng))
	case 1:
		return geom.Line{Start: randomVec(rng), End: randomVec(rng)}
	case 2:
		pts := make([]geom.Vec3, 1+rng.Intn(5))
		for i := range pts {
			pts[i] = randomVec(rng)
		}
		return geom.Polyline{Points: pts}
	case 3:
		pts := make([]geom.Vec3, 3+rng.Intn(3))
		for i := range pts {
			pts[i] = randomVec(rng)
		}
		return geom.Polygon{Points: pts}
	default:
		var m geom.Transform
		for i := range m {
			m[i] = rng.Float64()
		}
		return m
	}
}

func randomRecording(rng *rand.Rand, steps int) *recording.Recording {
	rec := recording.New()
	for i := 0; i < steps; i++ {
		for n := rng.Intn(4); n > 0; n-- {
			rec.Log(string(rune('a'+rng.Intn(3))), randomShape(rng))
		}
		rec.Advance()
	}
	return rec
}
