package core

// Color is the foreground color of a screen cell. The front end maps each
// value to a terminal color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightMagenta
	ColorBrightCyan
	ColorGray
)
