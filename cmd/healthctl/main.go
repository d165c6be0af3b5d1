// FilePath: cmd/healthctl/main.go
package main

import (
	"fmt"
	"os"

	nuts "github.com/vaudience/go-nuts"
)

func main() {
	nuts.InitVersion()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
