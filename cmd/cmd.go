package cmd

import (
	"os"

	"github.com/rwforge/rwtxd/cmd/root"

	_ "github.com/rwforge/rwtxd/cmd/info"
	_ "github.com/rwforge/rwtxd/cmd/list"
	_ "github.com/rwforge/rwtxd/cmd/rm"
	_ "github.com/rwforge/rwtxd/cmd/verify"
	_ "github.com/rwforge/rwtxd/cmd/version"
)

func Execute() {
	if root.Command.Execute() != nil {
		os.Exit(1)
	}
}
