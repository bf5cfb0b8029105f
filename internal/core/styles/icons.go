package styles

// Status glyphs used in item lists and progress output.
var (
	IconSelected   = "●"
	IconUnselected = "○"
	IconRunning    = "▸"
	IconSuccess    = "✓"
	IconFailure    = "✗"
	IconWarning    = "!"
	IconInfo       = "•"
	IconReversible = "↺"
)
