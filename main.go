package main

import (
	"os"

	"ticket_rehearsal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
