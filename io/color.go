package snapio

import (
	"fmt"

	"github.com/fatih/color"
)

// Color is a list of SGR attributes understood by fatih/color.
type Color []color.Attribute

// Indexed returns a 256-colour palette foreground.
func Indexed(i int) Color {
	return Color{38, 5, color.Attribute(i)}
}

// Basic foregrounds.
var (
	Red           = Color{color.FgRed}
	Green         = Color{color.FgGreen}
	Yellow        = Color{color.FgYellow}
	Blue          = Color{color.FgBlue}
	Cyan          = Color{color.FgCyan}
	BrightBlack   = Color{color.FgHiBlack}
	BrightRed     = Color{color.FgHiRed}
	BrightGreen   = Color{color.FgHiGreen}
	BrightYellow  = Color{color.FgHiYellow}
	BrightBlue    = Color{color.FgHiBlue}
	BrightMagenta = Color{color.FgHiMagenta}
	BrightCyan    = Color{color.FgHiCyan}

	LightPurple = Indexed(141)
	Orange      = Indexed(208)
)

// Style is a fluent builder over a colour and text attributes.
type Style struct {
	attrs []color.Attribute
}

// NewStyle creates an empty style.
func NewStyle() *Style { return &Style{} }

// Fg sets the foreground colour.
func (s *Style) Fg(c Color) *Style { s.attrs = append(s.attrs, c...); return s }

// Bold adds bold.
func (s *Style) Bold() *Style { s.attrs = append(s.attrs, color.Bold); return s }

// Faint adds faint intensity.
func (s *Style) Faint() *Style { s.attrs = append(s.attrs, color.Faint); return s }

// Underline adds underline.
func (s *Style) Underline() *Style { s.attrs = append(s.attrs, color.Underline); return s }

// Sprint returns text styled for m, or unchanged when m has no colour.
func (s *Style) Sprint(m *IOManager, text string) string {
	if len(s.attrs) == 0 || !m.SupportsColor() {
		return text
	}
	c := color.New(s.attrs...)
	// the decision was made by m; do not let the package-level
	// NO_COLOR/TTY check in fatih/color override it
	c.EnableColor()
	return c.Sprint(text)
}

// Sprintf formats with fmt.Sprintf and then applies the style.
func (s *Style) Sprintf(m *IOManager, format string, a ...any) string {
	return s.Sprint(m, fmt.Sprintf(format, a...))
}

// Theme provides semantic colours.
type Theme struct {
	Primary, Success, Warning, Error, Info, Debug, Muted Color
}

// DefaultTheme16 uses the bright ANSI colours only.
func DefaultTheme16() Theme {
	return Theme{
		Primary: BrightBlue,
		Success: BrightGreen,
		Warning: BrightYellow,
		Error:   BrightRed,
		Info:    BrightCyan,
		Debug:   BrightMagenta,
		Muted:   BrightBlack,
	}
}

// DefaultTheme256 swaps in palette colours where the 16-colour set is poor.
func DefaultTheme256() Theme {
	t := DefaultTheme16()
	t.Debug = LightPurple
	t.Warning = Orange
	return t
}

// DefaultTheme picks a theme for m's colour level.
func DefaultTheme(m *IOManager) Theme {
	if m.ColorLevel() >= 2 {
		return DefaultTheme256()
	}
	return DefaultTheme16()
}
