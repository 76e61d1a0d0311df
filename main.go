package main

import (
	"github.com/thisismy-go/thisismy/cmd"
)

func main() {
	cmd.Execute()
}
