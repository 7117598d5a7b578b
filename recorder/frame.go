package recorder

import "github.com/viant/houlog/loggable"

// Entry is a named value recorded in a frame.
type Entry struct {
	Name  string
	Value loggable.Value
}

// Frame holds entries in recording order.
type Frame struct {
	Entries []Entry
}

func cloneFrames(frames []Frame) []Frame {
	out := make([]Frame, len(frames))
	for i, f := range frames {
		out[i].Entries = append([]Entry(nil), f.Entries...)
	}
	return out
}
