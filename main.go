package main

import (
	"github.com/sidkik/jconf/cmd"
	"github.com/sidkik/jconf/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
