package main

import (
	"github.com/treesimjoin/simjoin/cmd/simjoin/cmd"
)

func main() {
	cmd.Execute()
}
