package rm

import (
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/rwforge/rwtxd"
	"github.com/rwforge/rwtxd/cmd/root"
	"github.com/rwforge/rwtxd/internal"
	"github.com/rwforge/rwtxd/txdutil"
	"github.com/spf13/cobra"
)

var Flags struct {
	TXD     string
	Names   []string
	Force   bool
	Verbose bool
	DryRun  bool
}

var Command = &cobra.Command{
	Use:     "rm txd_path texture...",
	Aliases: []string{"remove", "delete", "del"},
	Short:   "Deletes textures from a dictionary",
	Long: `Deletes textures from a dictionary

Texture names are matched case-insensitively and may be globs.
`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		Flags.Names = args[1:]
		main()
	},
}

func init() {
	root.ArgTXD(&Flags.TXD, Command, 1, true)
	Command.Flags().BoolVarP(&Flags.Force, "force", "f", false, "ignore non-existent textures")
	Command.Flags().BoolVarP(&Flags.DryRun, "dry-run", "n", false, "do not write changes")
	Command.Flags().BoolVarP(&Flags.Verbose, "verbose", "v", false, "print information about each deleted texture")
	root.Command.AddCommand(Command)
}

func main() {
	var failed int
	if err := txdutil.Update(Flags.TXD, Flags.DryRun, func(a *rwtxd.Archive) error {
		for _, name := range Flags.Names {
			if err := func() error {
				var matchErr error
				orig := len(a.Textures)
				a.Textures = slices.DeleteFunc(a.Textures, func(t *rwtxd.TextureInfo) bool {
					match, err := internal.MatchNameGlob(name, t.Name)
					if err != nil {
						matchErr = err
						return false
					}
					if match && Flags.Verbose {
						fmt.Printf("delete %s\n", t.Name)
					}
					return match
				})
				if matchErr != nil {
					return matchErr
				}
				if orig == len(a.Textures) && !Flags.Force {
					return fs.ErrNotExist
				}
				return nil
			}(); err != nil {
				fmt.Fprintf(os.Stderr, "error: delete %q: %v\n", name, err)
				failed++
			}
		}

		return nil
	}); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if failed != 0 {
		os.Exit(1)
	}
}
