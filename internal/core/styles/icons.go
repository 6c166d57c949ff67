package styles

// Toast icons, one per notification category.
var (
	IconSuccess = "✔"
	IconError   = "✘"
	IconWarning = "▲"
	IconInfo    = "●"
)

// Dashboard icons.
var (
	IconStore   = "⌂"
	IconBag     = "◈"
	IconRequest = "✎"
	IconOrder   = "▤"
	IconUser    = "☺"
	IconPin     = "⊙"
	IconCursor  = "›"
)
