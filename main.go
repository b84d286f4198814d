package main

import (
	"fmt"
	"os"

	"magic-engine/uci"
)

func main() {
	if err := uci.New(os.Stdout).Run(os.Stdin); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
