// Command rwtxd inspects and edits RenderWare texture dictionaries.
package main

import "github.com/rwforge/rwtxd/cmd"

func main() {
	cmd.Execute()
}
