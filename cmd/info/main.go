package info

import (
	"fmt"
	"os"
	"slices"

	"github.com/rwforge/rwtxd"
	"github.com/rwforge/rwtxd/cmd/root"
	"github.com/rwforge/rwtxd/internal"
	"github.com/spf13/cobra"
)

var Flags struct {
	TXD     string
	Verbose bool
}

var Command = &cobra.Command{
	Use:   "info txd_path",
	Short: "Summarizes the contents of a dictionary",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		main()
	},
}

func init() {
	root.ArgTXD(&Flags.TXD, Command, -1, false)
	Command.Flags().BoolVarP(&Flags.Verbose, "verbose", "v", false, "also describe each texture")
	root.Command.AddCommand(Command)
}

func main() {
	a, err := rwtxd.LoadPath(Flags.TXD)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: open txd: %v\n", err)
		os.Exit(1)
	}

	s := a.Statistics()
	fmt.Printf("version:   %s (stamp 0x%08X)\n", s.RenderWareVersion, uint32(a.Version))
	fmt.Printf("device:    %s\n", describeDevice(a.DeviceID))
	fmt.Printf("textures:  %d\n", s.TotalTextures)
	fmt.Printf("data size: %s\n", internal.FormatBytesSI(s.TotalSizeBytes))
	if s.TotalTextures != 0 {
		fmt.Printf("mean size: %dx%d\n", s.AverageWidth, s.AverageHeight)
	}

	formats := make([]rwtxd.RasterFormat, 0, len(s.FormatCounts))
	for f := range s.FormatCounts {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	for _, f := range formats {
		fmt.Printf("  %-9s %d\n", f, s.FormatCounts[f])
	}

	if Flags.Verbose {
		for _, t := range a.Textures {
			fmt.Printf("\n%s\n", t.Name)
			if t.MaskName != "" {
				fmt.Printf("  mask:    %s\n", t.MaskName)
			}
			fmt.Printf("  format:  %s (depth %d)\n", t.Format, t.Depth)
			fmt.Printf("  size:    %dx%d, %d mipmap(s), %s\n", t.Width, t.Height, t.MipmapCount, internal.FormatBytesSI(int64(t.DataSize)))
			fmt.Printf("  raster:  flags %#06x %s, d3d format %s\n", t.RasterFormatFlags, rwtxd.DescribeRasterFlags(t.RasterFormatFlags), describeD3DFormat(t.D3DFormat))
			fmt.Printf("  sampler: filter %s, uv %s/%s\n", t.FilterMode, t.AddressingU, t.AddressingV)
			fmt.Printf("  alpha:   %t\n", t.HasAlpha())
		}
	}
}

func describeDevice(id uint32) string {
	switch id {
	case 0:
		return "0 (unspecified)"
	case rwtxd.PlatformD3D8:
		return "1 (d3d8)"
	case rwtxd.PlatformD3D9:
		return "2 (d3d9)"
	case 6:
		return "6 (ps2)"
	case 8:
		return "8 (xbox)"
	}
	return fmt.Sprintf("%d", id)
}

func describeD3DFormat(f uint32) string {
	// FourCC codes are printable ASCII; numeric D3DFMT codes are not
	if b := [4]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)}; b[0] >= 0x20 && b[0] < 0x7F && b[1] >= 0x20 && b[1] < 0x7F && b[2] >= 0x20 && b[2] < 0x7F && b[3] >= 0x20 && b[3] < 0x7F {
		return fmt.Sprintf("%q", b[:])
	}
	return fmt.Sprintf("%d", f)
}
