package main

import (
	"github.com/leadpulse/leadctl/pkg/cli"
)

func main() {
	cli.Execute()
}
