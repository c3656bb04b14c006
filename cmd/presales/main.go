// Command presales tracks pre-sales opportunities from the command line or a
// local web page.
package main

import (
	"os"

	"github.com/mesh-intelligence/presales/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
