package core

// Color is the foreground color of a screen cell.
// Front ends map it to ANSI 256-color codes.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorOrange
	ColorBrown
	ColorGray
)

var colorNames = [...]string{
	ColorDefault:      "default",
	ColorRed:          "red",
	ColorGreen:        "green",
	ColorYellow:       "yellow",
	ColorBlue:         "blue",
	ColorMagenta:      "magenta",
	ColorCyan:         "cyan",
	ColorWhite:        "white",
	ColorBrightRed:    "bright-red",
	ColorBrightGreen:  "bright-green",
	ColorBrightYellow: "bright-yellow",
	ColorOrange:       "orange",
	ColorBrown:        "brown",
	ColorGray:         "gray",
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "unknown"
}
