package main

import (
	"github.com/leocov-dev/helixmeta/cmd"
	"github.com/leocov-dev/helixmeta/config"
)

var Version string

func main() {
	config.SetVersion(Version)
	cmd.Execute()
}
