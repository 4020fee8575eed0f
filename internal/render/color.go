package render

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color modes accepted by --color
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ShouldUseColors reports whether output written to w should be colored
func ShouldUseColors(colorMode string, w io.Writer) bool {
	switch colorMode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		f, ok := w.(*os.File)
		if !ok {
			return false
		}
		if info, err := f.Stat(); err != nil || info.Mode()&os.ModeCharDevice == 0 {
			return false
		}
		return os.Getenv("NO_COLOR") == ""
	default:
		return true
	}
}

// ConfigureColorProfile sets the global lipgloss color profile for the mode.
// Call it before anything is rendered.
//
// "always" forces TrueColor so piped output stays colored. "never" forces
// Ascii. "auto" keeps lipgloss's own TTY detection.
func ConfigureColorProfile(colorMode string) {
	switch colorMode {
	case ColorAlways:
		lipgloss.SetColorProfile(termenv.TrueColor)
	case ColorNever:
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
