package main

import (
	"os"

	"github.com/lunar-antiques/lunar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
