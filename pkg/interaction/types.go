/* pkg/interaction/types.go */

package interaction

const (
	DefaultYesPrompt = "Y/n"
	DefaultNoPrompt  = "y/N"
)

const (
	YesShort = "y"
	YesLong  = "yes"
	NoShort  = "n"
	NoLong   = "no"
)

// ErasePhrase must be typed verbatim before a destructive job starts.
const ErasePhrase = "ERASE"
