// Package recording holds the frame buffer that logged shapes accumulate in.
//
// A Recording always has at least one frame. Log appends to the last frame
// and Advance starts a new one, so the number of frames is one more than the
// number of Advance calls since creation or the last Reset.
//
// Recording is not safe for concurrent use; the owning session serializes
// access.
package recording

import "github.com/bft-labs/houlog/pkg/geom"

// Entry is a named shape logged into a frame. Names need not be unique.
type Entry struct {
	Name  string
	Shape geom.Shape
}

// Frame is the ordered list of entries logged during one step.
type Frame struct {
	Entries []Entry
}

// Len returns the number of entries in the frame.
func (f Frame) Len() int {
	return len(f.Entries)
}

// Empty returns true if nothing was logged into the frame.
func (f Frame) Empty() bool {
	return len(f.Entries) == 0
}

// Recording is an ordered sequence of frames indexed from zero.
type Recording struct {
	frames []Frame
}

// New creates a recording with a single empty frame.
func New() *Recording {
	return &Recording{frames: []Frame{{}}}
}

// Log appends a named shape to the current frame.
func (r *Recording) Log(name string, s geom.Shape) {
	last := &r.frames[len(r.frames)-1]
	last.Entries = append(last.Entries, Entry{Name: name, Shape: s})
}

// Advance appends an empty frame and makes it current.
func (r *Recording) Advance() {
	r.frames = append(r.frames, Frame{})
}

// Current returns the index of the frame Log writes into.
func (r *Recording) Current() int {
	return len(r.frames) - 1
}

// Len returns the number of frames.
func (r *Recording) Len() int {
	return len(r.frames)
}

// Frame returns the frame at index i.
func (r *Recording) Frame(i int) Frame {
	return r.frames[i]
}

// Frames returns the frames in order. The slice must not be modified.
func (r *Recording) Frames() []Frame {
	return r.frames
}

// EntryCount returns the total number of entries across all frames.
func (r *Recording) EntryCount() int {
	var n int
	for _, f := range r.frames {
		n += len(f.Entries)
	}
	return n
}

// Empty returns true if no entries have been logged.
func (r *Recording) Empty() bool {
	return r.EntryCount() == 0
}

// Reset discards all frames and starts again from a single empty frame.
func (r *Recording) Reset() {
	r.frames = []Frame{{}}
}

// Clone returns a copy whose frame and entry slices are independent of r.
// Shapes are values and are shared.
func (r *Recording) Clone() *Recording {
	out := &Recording{frames: make([]Frame, len(r.frames))}
	for i, f := range r.frames {
		if f.Entries != nil {
			out.frames[i].Entries = append([]Entry(nil), f.Entries...)
		}
	}
	return out
}

// FromFrames builds a recording from decoded frames. An empty input still
// yields one empty frame.
func FromFrames(frames []Frame) *Recording {
	if len(frames) == 0 {
		return New()
	}
	return &Recording{frames: frames}
}
