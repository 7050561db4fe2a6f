package stacktrace

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// StackTrace is a resolved call stack, outermost caller last.
type StackTrace struct {
	Frames []Frame
}

// ParsePCS resolves raw program counters into a StackTrace.
func ParsePCS(pcs []uintptr) *StackTrace {
	if len(pcs) == 0 {
		return &StackTrace{}
	}
	frames := runtime.CallersFrames(pcs)
	st := &StackTrace{Frames: make([]Frame, 0, len(pcs))}
	for {
		frame, more := frames.Next()
		st.Frames = append(st.Frames, Frame{frame})
		if !more {
			break
		}
	}
	return st
}

// Strings returns one formatted line per frame.
func (s *StackTrace) Strings() []string {
	lines := make([]string, len(s.Frames))
	for i, f := range s.Frames {
		lines[i] = f.String()
	}
	return lines
}

// Format formats the stack of frames according to the fmt.Formatter interface.
func (s *StackTrace) Format(fs fmt.State, verb rune) {
	for i, f := range s.Frames {
		if i > 0 {
			_, _ = io.WriteString(fs, "\n")
		}
		f.Format(fs, verb)
	}
}

// String returns a single-line representation of the stack trace.
func (s *StackTrace) String() string {
	var sb strings.Builder
	for i, f := range s.Frames {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("[%d] ", i+1))
		sb.WriteString(f.String())
	}
	return sb.String()
}
