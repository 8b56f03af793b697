package main

import (
	"fmt"
	"os"

	"github.com/c14220110/poliklinik-antrian/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
