package list

import (
	"fmt"
	"os"
	"strings"

	"github.com/rwforge/rwtxd"
	"github.com/rwforge/rwtxd/cmd/root"
	"github.com/rwforge/rwtxd/internal"
	"github.com/spf13/cobra"
)

var Flags struct {
	TXD                string
	HumanReadable      bool
	HumanReadableFlags bool
	Long               bool
	Format             formatFlag
	IncludeExclude     func(string) (bool, error)
}

var Command = &cobra.Command{
	Use:     "list txd_path",
	Short:   "Lists the textures in a dictionary",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		main()
	},
}

// formatFlag is an optional pixel format filter.
type formatFlag struct {
	set bool
	val rwtxd.RasterFormat
}

func (f *formatFlag) String() string {
	if !f.set {
		return ""
	}
	return f.val.String()
}

func (f *formatFlag) Set(s string) error {
	v, err := rwtxd.ParseRasterFormat(s)
	if err != nil {
		return err
	}
	f.set, f.val = true, v
	return nil
}

func (f *formatFlag) Type() string {
	return "format"
}

func init() {
	Command.Flags().Bool("help", false, "help for "+Command.Name()) // prevent the default short help flag from being set
	Command.Flags().BoolVarP(&Flags.HumanReadable, "human-readable", "h", false, "show values in human-readable form")
	Command.Flags().BoolVarP(&Flags.HumanReadableFlags, "human-readable-flags", "f", false, "if displaying flags, also show them in human-readable form at the very end of the line (delimited by a #)")
	Command.Flags().BoolVarP(&Flags.Long, "long", "l", false, "show detailed texture metadata (adds the following columns to the beginning: format width x height depth mipmaps raster_flags[binary] data_size[bytes])")
	Command.Flags().Var(&Flags.Format, "format", "only show textures with the given pixel format (e.g. bc1, pal8, rgba32)")
	root.FlagIncludeExclude(&Flags.IncludeExclude, Command, true)
	root.ArgTXD(&Flags.TXD, Command, -1, false)
	root.Command.AddCommand(Command)
}

func main() {
	a, err := rwtxd.LoadPath(Flags.TXD)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: open txd: %v\n", err)
		os.Exit(1)
	}

	var nameLen int
	for _, t := range a.Textures {
		nameLen = max(nameLen, min(len(t.Name), 32))
	}

	for _, t := range a.Textures {
		if skip, err := Flags.IncludeExclude(t.Name); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		} else if skip {
			continue
		}
		if Flags.Format.set && t.Format != Flags.Format.val {
			continue
		}

		if Flags.Long {
			if Flags.HumanReadable {
				fmt.Printf("%-9s %5dx%-5d %2d %2d %016b %9s  ", t.Format, t.Width, t.Height, t.Depth, t.MipmapCount, t.RasterFormatFlags, formatBytesSIAligned(int64(t.DataSize)))
			} else {
				fmt.Printf("%-9s %5dx%-5d %2d %2d %016b %9d  ", t.Format, t.Width, t.Height, t.Depth, t.MipmapCount, t.RasterFormatFlags, t.DataSize)
			}
		}
		if Flags.Long && Flags.HumanReadableFlags {
			fmt.Printf("%*s", -nameLen, t.Name)
		} else {
			fmt.Printf("%s", t.Name)
		}
		if Flags.Long && Flags.HumanReadableFlags {
			fmt.Printf(" # raster=%s filter=%s uv=%s/%s", rwtxd.DescribeRasterFlags(t.RasterFormatFlags), t.FilterMode, t.AddressingU, t.AddressingV)
		}
		fmt.Printf("\n")
	}
}

func formatBytesSIAligned(b int64) string {
	s := internal.FormatBytesSI(b)
	s, isB := strings.CutSuffix(s, " B")
	if isB {
		s += "  B"
	}
	return s
}
