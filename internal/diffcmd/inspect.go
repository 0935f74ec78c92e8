package diffcmd

import (
	"fmt"
	"text/tabwriter"
)

// ExecuteInspect lists the tables found in each file, to help pick the
// table id for a run.
func ExecuteInspect(paths []string, deps Deps) error {
	deps = deps.withDefaults()
	if deps.Lister == nil {
		return fmt.Errorf("no table lister configured")
	}

	for i, path := range paths {
		infos, err := deps.Lister.List(path)
		if err != nil {
			return err
		}

		if i > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		fmt.Fprintf(deps.Stdout, "%s:\n", path)
		if len(infos) == 0 {
			fmt.Fprintln(deps.Stdout, "  (no tables)")
			continue
		}

		tw := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
		for _, info := range infos {
			fmt.Fprintf(tw, "  %s\t%dx%d\t%s\n", info.Name, info.Rows, info.Cols, info.Note)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
