package sink

import (
	"math"

	"github.com/bft-labs/houlog/pkg/encode"
	"github.com/bft-labs/houlog/pkg/geom"
	"github.com/bft-labs/houlog/pkg/recording"
)

// Geometry is the point cloud pushed alongside the document. Every logged
// entry becomes one point; the attribute slices are parallel and all have
// PointCount elements.
type Geometry struct {
	PointCount int `json:"point_count"`

	// P holds x, y, z per point (3 * PointCount values)
	P []float64 `json:"P"`

	Name []string `json:"name"`

	// Time is the frame index plus one, so frame 0 plays at time 1
	Time []float64 `json:"time"`

	Kind []string `json:"kind"`

	// Metadata is the entry's tagged shape as it appears in the document
	Metadata []string `json:"metadata"`
}

// BuildGeometry flattens rec into one point per entry, frame by frame in
// logging order. Shapes are encoded with the given options, so the same
// non-finite policy applies as for the document.
func BuildGeometry(rec *recording.Recording, opts ...encode.Option) (Geometry, error) {
	var g Geometry
	if rec == nil {
		return g, nil
	}

	n := rec.EntryCount()
	g = Geometry{
		PointCount: n,
		P:          make([]float64, 0, 3*n),
		Name:       make([]string, 0, n),
		Time:       make([]float64, 0, n),
		Kind:       make([]string, 0, n),
		Metadata:   make([]string, 0, n),
	}

	for i, f := range rec.Frames() {
		for _, e := range f.Entries {
			meta, err := encode.EncodeShape(e.Shape, opts...)
			if err != nil {
				return Geometry{}, err
			}
			p := geom.Position(e.Shape)
			g.P = append(g.P, finite(p.X), finite(p.Y), finite(p.Z))
			g.Name = append(g.Name, e.Name)
			g.Time = append(g.Time, float64(i+1))
			g.Kind = append(g.Kind, string(e.Shape.Kind()))
			g.Metadata = append(g.Metadata, string(meta))
		}
	}
	return g, nil
}

// finite maps NaN and infinities to zero. They only get this far under the
// null policy, and JSON has no way to carry them in P.
func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
