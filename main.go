package main

import (
	"os"

	"renewals-authorization/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
