package main

import "github.com/tabzoom/zoomd/internal/cli/cmd"

func main() {
	cmd.Execute()
}
