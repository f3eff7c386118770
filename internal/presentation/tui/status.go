package tui

import (
	"io"

	"github.com/muesli/termenv"
)

// Status is the coarse result of a run, as shown to the user.
type Status uint8

const (
	StatusOK Status = iota
	StatusFailed
	StatusCanceled
	StatusFault
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusCanceled:
		return "cancelled"
	case StatusInvalid:
		return "invalid"
	default:
		return "fault"
	}
}

var statusColors = map[Status]string{
	StatusOK:       "#22c55e",
	StatusFailed:   "#f59e0b",
	StatusCanceled: "#a78bfa",
	StatusFault:    "#ef4444",
	StatusInvalid:  "#ef4444",
}

// Painter colours status labels for one output.
type Painter struct {
	profile termenv.Profile
}

// NewPainter detects the colour profile of w. Non-terminals get no colour.
func NewPainter(w io.Writer) Painter {
	if !IsTerminal(w) {
		return Painter{profile: termenv.Ascii}
	}
	return Painter{profile: termenv.NewOutput(w).Profile}
}

// NewPainterWithProfile is used when the profile is known.
func NewPainterWithProfile(p termenv.Profile) Painter {
	return Painter{profile: p}
}

// Label renders s as a bracketed label, e.g. "[ok]".
func (p Painter) Label(s Status) string {
	return p.profile.String("[" + s.String() + "]").
		Foreground(p.profile.Color(statusColors[s])).
		Bold().
		String()
}
