package version

import (
	"fmt"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/rwforge/rwtxd/cmd/root"
	"github.com/spf13/cobra"
)

var Flags struct {
}

var Command = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		main()
	},
}

func init() {
	root.Command.AddCommand(Command)
}

func main() {
	var vcs struct {
		revision string
		time     time.Time
		modified bool
	}
	var dep struct {
		ximage string
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				v := s.Value
				if len(v) < 20 {
					panic(fmt.Errorf("parse %s %q: too short", s.Key, s.Value))
				}
				vcs.revision = v
			case "vcs.time":
				v, err := time.ParseInLocation(time.RFC3339Nano, s.Value, time.UTC)
				if err != nil {
					panic(fmt.Errorf("parse %s %q: %w", s.Key, s.Value, err))
				}
				vcs.time = v
			case "vcs.modified":
				v, err := strconv.ParseBool(s.Value)
				if err != nil {
					panic(fmt.Errorf("parse %s %q: %w", s.Key, s.Value, err))
				}
				vcs.modified = v
			}
		}
		for _, d := range bi.Deps {
			var s *string
			switch d.Path {
			case "golang.org/x/image":
				s = &dep.ximage
			}
			if s != nil {
				if d.Replace != nil {
					*s = d.Replace.Path
					if d.Version != "(devel)" {
						*s += " " + d.Replace.Version
					}
				} else {
					if d.Version != "(devel)" {
						*s = d.Version
					}
				}
			}
		}
	}
	if len(vcs.revision) == 0 {
		panic("no version information")
	}

	version := "rwtxd "
	if vcs.revision != "" {
		version += vcs.revision[:7]
	} else {
		version += "unknown"
	}
	if vcs.modified {
		version += " (modified)"
	}
	fmt.Println(version)

	version = "x/image "
	if dep.ximage != "" {
		version += dep.ximage
	} else {
		version += "unknown"
	}
	fmt.Println(version)
}
