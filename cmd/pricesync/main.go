package main

import (
	"context"

	"github.com/davidbz/pricesync/cmd/pricesync/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
