package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/num/quat"

	"github.com/bft-labs/houlog/pkg/geom"
	"github.com/bft-labs/houlog/pkg/houlog"
)

func newDemoCmd(a *app) *cobra.Command {
	frames := 100
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Record a synthetic scene and push it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if frames < 1 {
				return fmt.Errorf("frames must be at least 1")
			}
			s, err := a.session()
			if err != nil {
				return err
			}
			defer func() { err = closeSession(cmd.Context(), s, err) }()

			return recordDemo(s, frames)
		},
	}
	cmd.Flags().IntVar(&frames, "frames", frames, "number of frames to record")
	return cmd
}

type namedShape struct {
	name string
	v    geom.Loggable
}

// recordDemo logs a body spiralling upward with its trail, heading and a
// ground marker, one step per frame.
func recordDemo(s *houlog.Session, frames int) error {
	trail := make([]geom.Vec3, 0, frames)
	ground := geom.Polygon{Points: []geom.Vec3{
		geom.V3(-5, -5, 0), geom.V3(5, -5, 0), geom.V3(5, 5, 0), geom.V3(-5, 5, 0),
	}}

	for i := 0; i < frames; i++ {
		t := float64(i) / 10
		pos := geom.V3(3*math.Cos(t), 3*math.Sin(t), t/2)
		trail = append(trail, pos)

		// Yaw follows the tangent of the spiral.
		half := (t + math.Pi/2) / 2
		pose := geom.Pose{Position: pos, Rotation: quat.Number{Real: math.Cos(half), Kmag: math.Sin(half)}}

		logs := []namedShape{
			{"body", geom.Sphere{Center: pos, Radius: 0.25}},
			{"pose", pose},
			{"trail", geom.Polyline{Points: trail}},
			{"shadow", geom.Line2D{Start: geom.Vec2{}, End: geom.Vec2{X: pos.X, Y: pos.Y}}},
			{"arm", geom.Capsule{A: pos, B: geom.V3(pos.X, pos.Y, 0), Radius: 0.05}},
		}
		if i == 0 {
			logs = append(logs, namedShape{"ground", ground})
		}

		for _, l := range logs {
			if err := s.Log(l.name, l.v); err != nil {
				return err
			}
		}
		if i < frames-1 {
			if err := s.NextFrame(); err != nil {
				return err
			}
		}
	}
	return nil
}
