// Package output creates termenv outputs that honor NO_COLOR.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorDisabled reports whether the user asked for plain output.
func ColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// ColorProfile returns the color profile for interactive terminals.
// It returns Ascii when NO_COLOR is set and detects the terminal otherwise.
func ColorProfile() termenv.Profile {
	if ColorDisabled() {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// ColorProfileANSI returns the color profile for line oriented output that may
// end up in CI logs: Ascii when NO_COLOR is set, basic ANSI otherwise.
func ColorProfileANSI() termenv.Profile {
	if ColorDisabled() {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsCI reports whether the CI environment variable is set to a truthy value.
func IsCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1"
}

// ProfileFor picks the line oriented profile for w. Output that goes neither to
// a terminal nor to a CI log is written without escape sequences.
func ProfileFor(w io.Writer) func() termenv.Profile {
	return func() termenv.Profile {
		if IsTerminal(w) || IsCI() {
			return ColorProfileANSI()
		}
		return termenv.Ascii
	}
}

// New creates a termenv.Output writing to w using ColorProfile.
// A nil w writes to os.Stderr.
func New(w io.Writer) *termenv.Output {
	return NewWithProfile(w, ColorProfile)
}

// NewWithProfile creates a termenv.Output writing to w with the profile chosen by profileFn.
func NewWithProfile(w io.Writer, profileFn func() termenv.Profile) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, termenv.WithProfile(profileFn()), termenv.WithTTY(true))
}
