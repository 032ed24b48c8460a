// Command catalogcheck verifies a product catalog API against its contract.
package main

import (
	"os"

	"github.com/roach88/catalogcheck/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
