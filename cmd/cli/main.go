// paccor4esp - ESP32 component list generator
//
// paccor4esp parses an ESP32 boot log and writes the TCG component list
// consumed by platform certificate tooling.
package main

import (
	"os"

	"github.com/paccor4esp/paccor4esp/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
