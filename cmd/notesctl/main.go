// Command notesctl opera el store de notas desde la terminal: schema,
// importación masiva, historial, timeline y reintento de retiros.
package main

import (
	"fmt"
	"os"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
