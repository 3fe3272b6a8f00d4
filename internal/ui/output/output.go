// Package output builds termenv outputs with the CLI's color rules: NO_COLOR
// always wins, interactive surfaces detect the terminal, CI surfaces stick to
// plain ANSI.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorProfile detects the terminal's capabilities, honoring NO_COLOR.
// Used by the pretty log handler.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// ColorProfileANSI caps colors at plain ANSI for non-interactive runs,
// honoring NO_COLOR. Used by the linear renderer.
func ColorProfileANSI() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// New builds an output for w with the detected profile. A nil writer means
// stderr.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	return NewWithProfile(w, ColorProfile, opts...)
}

// NewWithProfile builds an output for w with an explicit profile selector.
// A nil writer means stderr.
func NewWithProfile(w io.Writer, profileFn func() termenv.Profile, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(profileFn()),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}
