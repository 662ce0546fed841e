// Command words looks up English words in the public dictionary service,
// either as a web server (words serve) or in the terminal (words lookup).
package main

import (
	"fmt"
	"os"

	"github.com/heartmarshall/words/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
