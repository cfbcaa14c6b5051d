// Package encode serializes a Recording into the JSON document consumed by
// the host-side parser node, and decodes such documents back.
//
// # Layout
//
//	{
//	  "0": {"p": {"type": "point", "x": 1, "y": 2, "z": 3}},
//	  "1": {"l": {"type": "line", "start": {...}, "end": {...}}}
//	}
//
// Frame keys are decimal frame indices in ascending order. Frames with no
// entries are omitted. Within a frame, entry keys appear in the order their
// names were first logged; a name logged more than once maps to an array of
// tagged shapes in logging order. Decode rejects frame keys at or above
// MaxFrames.
//
// Per type fields:
//
//	point      x, y, z
//	line       start {x,y,z}, end {x,y,z}
//	polyline   points [{x,y,z}, ...]
//	polygon    points [{x,y,z}, ...]
//	transform  matrix [16 numbers, column-major]
//
// # Non-finite numbers
//
// JSON cannot represent NaN or infinities. By default Encode fails with an
// error wrapping [ErrEncoding]; [WithNonFinite]([NonFiniteNull]) writes null
// instead, which Decode reads back as NaN.
//
// # Version
//
// Current format version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package encode
