package main

import "github.com/fvnks/konecte-relay/cmd"

func main() {
	cmd.Execute()
}
