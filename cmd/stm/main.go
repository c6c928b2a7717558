package main

import (
	"os"

	"sshTunnelManager/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
