package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "assist-cli: %v\n", err)
		if isLoadError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
