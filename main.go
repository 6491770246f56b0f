// hrkernel CLI - employee records on a DDD domain kernel
package main

import (
	"os"

	"hrkernel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
