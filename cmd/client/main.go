package main

import (
	"meetboard/cmd/client/cmd"
)

func main() {
	cmd.Execute()
}
