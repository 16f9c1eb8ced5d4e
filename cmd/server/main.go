package main

import "github.com/nookcoder/inventory-gateway/internal/cli/cmd"

func main() {
	cmd.Execute()
}
