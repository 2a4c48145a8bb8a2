package main

import (
	cmd "github.com/yourusername/planrisk/cmd/commands"
)

func main() {
	cmd.Execute()
}
