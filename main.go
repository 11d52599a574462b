package main

import (
	"github.com/xmazu/envload/cmd"
)

var Version = "dev"

func main() {
	cmd.SetVersion(Version)
	cmd.Execute()
}
