package verify

import (
	"fmt"
	"os"
	"sync"

	"github.com/rwforge/rwtxd"
	"github.com/rwforge/rwtxd/cmd/root"
	"github.com/spf13/cobra"
)

var Flags struct {
	TXD     string
	Verbose bool
}

var Command = &cobra.Command{
	Use:   "verify txd_path",
	Short: "Verifies that every mip level of every texture decodes",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		main()
	},
}

func init() {
	root.ArgTXD(&Flags.TXD, Command, -1, false)
	Command.Flags().BoolVarP(&Flags.Verbose, "verbose", "v", false, "display textures as they are verified")
	root.Command.AddCommand(Command)
}

func main() {
	a, err := rwtxd.LoadPath(Flags.TXD)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: open txd: %v\n", err)
		os.Exit(1)
	}

	results := make([]error, len(a.Textures))
	var wg sync.WaitGroup
	sem := make(chan struct{}, root.Flags.Threads)
	for i, t := range a.Textures {
		i, t := i, t
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = verifyTexture(a, t)
		}()
	}
	wg.Wait()

	var failure int
	for i, t := range a.Textures {
		if err := results[i]; err != nil {
			if Flags.Verbose {
				fmt.Printf("%s: ERROR\n", t.Name)
			}
			fmt.Fprintf(os.Stderr, "%s: ERROR - %v\n", t.Name, err)
			failure++
		} else if Flags.Verbose {
			fmt.Printf("%s: OK\n", t.Name)
		}
	}
	if failure != 0 {
		os.Exit(1)
	}
}

func verifyTexture(a *rwtxd.Archive, t *rwtxd.TextureInfo) error {
	for level := 0; level < int(t.MipmapCount); level++ {
		if _, err := t.ToRGBA(a, level); err != nil {
			return fmt.Errorf("mip %d: %w", level, err)
		}
	}
	return nil
}
