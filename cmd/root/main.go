package root

import (
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/rwforge/rwtxd"
	"github.com/rwforge/rwtxd/internal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var Flags struct {
	LogLevel string
	Threads  int
}

var Command = &cobra.Command{
	Use:   "rwtxd",
	Short: "Inspects and edits RenderWare texture dictionaries.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logrus.ParseLevel(Flags.LogLevel)
		if err != nil {
			return fmt.Errorf("parsing log-level: %w", err)
		}
		logrus.SetLevel(l)
		if Flags.Threads < 1 {
			Flags.Threads = 1
		}
		return nil
	},
}

var GroupTXD = &cobra.Group{
	ID:    "txd",
	Title: "Commands:",
}

func init() {
	Command.AddGroup(GroupTXD)
	Command.PersistentFlags().StringVar(&Flags.LogLevel, "log-level", "info", "log level (debug, info, warning, error)")
	Command.PersistentFlags().IntVarP(&Flags.Threads, "threads", "j", runtime.NumCPU(), "number of threads to use for decoding (default is cpu count)")
}

// ArgTXD updates cmd to use the txd path as the first mandatory argument,
// validating it and registering completions.
//
// Also sets the command group.
//
// If i is positive, it completes arguments after (one or multi) it with
// texture names from the dictionary (these are not validated).
func ArgTXD(out *string, cmd *cobra.Command, i int, multi bool) {
	if i == 0 {
		panic("texture arg index must not be zero")
	}

	// check the help text if it's set
	if a, b, _ := strings.Cut(cmd.Use, " "); a != "" {
		if a, _, _ := strings.Cut(b, " "); a != "txd_path" {
			panic("second argument help must be txd_path")
		}
	}

	// set the command group
	cmd.GroupID = GroupTXD.ID

	// add the argument validation/parsing
	args := func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("txd path is required")
		}
		*out = args[0]
		return nil
	}
	if next := cmd.Args; next != nil {
		cmd.Args = cobra.MatchAll(args, next)
	} else {
		cmd.Args = args
	}

	// add the argument completion
	if validArgsFunction, next := func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return []string{rwtxd.Ext}, cobra.ShellCompDirectiveFilterFileExt
		}
		if i > 0 && len(args) >= i && (multi || len(args) == i) {
			a, err := rwtxd.LoadPath(args[0])
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			var cs []string
			for _, t := range a.Textures {
				if strings.HasPrefix(strings.ToLower(t.Name), strings.ToLower(toComplete)) {
					cs = append(cs, t.Name)
				}
			}
			slices.Sort(cs)
			cs = slices.Compact(cs)
			return cs, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveDefault
	}, cmd.ValidArgsFunction; next != nil {
		cmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 || (i > 0 && len(args) >= i && (multi || len(args) == i)) {
				return validArgsFunction(cmd, args, toComplete)
			}
			return next(cmd, args, toComplete)
		}
	} else {
		cmd.ValidArgsFunction = validArgsFunction
	}
}

// FlagIncludeExclude adds --exclude and --include flags, setting out to a
// function checking if a texture name is excluded.
func FlagIncludeExclude(out *func(string) (bool, error), cmd *cobra.Command, short bool) {
	var Exclude, Include *[]string
	var (
		ExcludeDoc = "Excludes textures matching the provided glob"
		IncludeDoc = "Negates --exclude for textures matching the provided glob (if only includes are provided, it excludes everything else)"
	)
	if short {
		Exclude = cmd.Flags().StringSliceP("exclude", "e", nil, ExcludeDoc)
		Include = cmd.Flags().StringSliceP("include", "E", nil, IncludeDoc)
	} else {
		Exclude = cmd.Flags().StringSlice("exclude", nil, ExcludeDoc)
		Include = cmd.Flags().StringSlice("include", nil, IncludeDoc)
	}
	*out = func(name string) (bool, error) {
		var excluded bool
		for _, x := range *Exclude {
			if m, err := internal.MatchNameGlob(x, name); err != nil {
				return false, fmt.Errorf("process excludes: match %q against glob %q: %w", name, x, err)
			} else if m {
				excluded = true
				break
			}
		}
		if len(*Exclude) == 0 && len(*Include) != 0 {
			excluded = true
		}
		for _, x := range *Include {
			if m, err := internal.MatchNameGlob(x, name); err != nil {
				return false, fmt.Errorf("process includes: match %q against glob %q: %w", name, x, err)
			} else if m {
				excluded = false
				break
			}
		}
		return excluded, nil
	}
}
