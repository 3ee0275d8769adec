package display

import (
	"fmt"
	"os"

	"github.com/photoclean/photoclean/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Magenta != "" {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, ` ____  _           _        ____ _
|  _ \| |__   ___ | |_ ___ / ___| | ___  __ _ _ __
| |_) | '_ \ / _ \| __/ _ \ |   | |/ _ \/ _`+"`"+` | '_ \
|  __/| | | | (_) | || (_) | |___| |  __/ (_| | | | |
|_|   |_| |_|\___/ \__\___/ \____|_|\___|\__,_|_| |_|
`)
	if term.Magenta != "" {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
