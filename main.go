// Package main is the entry point for the attrcodec command.
package main

import (
	"fmt"
	"os"

	"firestige.xyz/attrcodec/cmd"
	"firestige.xyz/attrcodec/internal/log"
)

func main() {
	err := cmd.Execute()
	log.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
