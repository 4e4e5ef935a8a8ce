package main

import (
	"os"

	"vocabdiff/cmd/vocabdiff/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
