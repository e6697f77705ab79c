// The main package for the numharvest executable.
package main

import (
	"github.com/osintlabs/numharvest/cmd"
)

func main() {
	cmd.Execute()
}
