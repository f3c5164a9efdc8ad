package main

import (
	"os"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
