package main

import (
	"os"

	"github.com/codereview-agent/codereview/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
