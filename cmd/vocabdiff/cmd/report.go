package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"vocabdiff/internal/comparison"
	"vocabdiff/internal/config"
	"vocabdiff/internal/differ"
	"vocabdiff/internal/diffview"
	"vocabdiff/internal/log"
	"vocabdiff/internal/vocab"
)

const (
	formatTable   = "table"
	formatPatch   = "patch"
	formatSummary = "summary"
)

func bind(v *viper.Viper, f *pflag.Flag, key string) {
	if err := v.BindPFlag(key, f); err != nil {
		// Only fails for a nil flag.
		panic(fmt.Sprintf("binding --%s: %v", key, err))
	}
}

func newReportCmd(st *state) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report OLD NEW",
		Short: "Print the differences between two vocabulary files",
		Long: `report compares two vocabulary files without the TUI.

Formats:
  table    one row per added, removed or changed word (default)
  patch    unified diff of the sorted "word<TAB>codes" listings
  summary  counts and file details

The exit code is 1 when either file fails to load; whatever could be
compared is still printed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, st, format, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", formatTable, "output format: table, patch or summary")
	f.Int("context", config.Defaults().PatchContext, "context lines around each patch hunk")
	bind(st.v, f.Lookup("context"), config.KeyPatchContext)
	return cmd
}

func runReport(cmd *cobra.Command, st *state, format, oldPath, newPath string) error {
	switch format {
	case formatTable, formatPatch, formatSummary:
	default:
		return fmt.Errorf("unknown format %q (want table, patch or summary)", format)
	}

	c, err := comparison.Run(
		comparison.Request{OldPath: oldPath, NewPath: newPath},
		comparison.Options{Load: st.cfg.LoadOptions()},
	)
	if err != nil {
		return err
	}

	res := c.Result
	if st.cfg.Sort {
		res = res.Sorted()
	}

	out := cmd.OutOrStdout()
	switch format {
	case formatTable:
		writeTable(out, res)
	case formatSummary:
		writeSummary(out, c)
	case formatPatch:
		if err := writePatch(out, c, st.cfg.PatchContext, isTerminal(out)); err != nil {
			return err
		}
	}

	return loadFailures(cmd.ErrOrStderr(), c)
}

// loadFailures prints one warning per file that could not be loaded and
// returns errLoadFailed if there were any.
func loadFailures(w io.Writer, c *comparison.Comparison) error {
	if !c.Failed() {
		return nil
	}
	for _, e := range c.Errors {
		fmt.Fprintf(w, "warning: %v\n", e)
	}
	log.WithError(c.Err()).Debug("report finished with load errors")
	return errLoadFailed
}

func writeTable(w io.Writer, res differ.Result) {
	if res.Empty() {
		fmt.Fprintln(w, "No differences.")
		return
	}

	tbl := table.New("STATUS", "WORD", "OLD", "NEW").
		WithWriter(w).
		WithWidthFunc(runewidth.StringWidth)

	for _, e := range res.Added {
		tbl.AddRow("added", e.Word, "", joinCodes(e.Codes))
	}
	for _, e := range res.Removed {
		tbl.AddRow("removed", e.Word, joinCodes(e.Codes), "")
	}
	for _, ch := range res.Changed {
		tbl.AddRow("changed", ch.Word, joinCodes(ch.Old), joinCodes(ch.New))
	}
	tbl.Print()
}

func writeSummary(w io.Writer, c *comparison.Comparison) {
	s := c.Result.Summary()
	fmt.Fprintf(w, "old: %s\n", describeInfo(c.Request.OldPath, c.OldInfo, c.Old.Len()))
	fmt.Fprintf(w, "new: %s\n", describeInfo(c.Request.NewPath, c.NewInfo, c.New.Len()))
	fmt.Fprintf(w, "added %s, removed %s, changed %s, unchanged %s\n",
		humanize.Comma(int64(s.Added)),
		humanize.Comma(int64(s.Removed)),
		humanize.Comma(int64(s.Changed)),
		humanize.Comma(int64(s.Unchanged)),
	)
}

func writePatch(w io.Writer, c *comparison.Comparison, context int, color bool) error {
	patch, err := diffview.Patch(c, context)
	if err != nil {
		return err
	}
	if len(patch) == 0 {
		return nil
	}
	if color {
		fmt.Fprint(w, diffview.HighlightPatch(string(patch), diffview.DefaultStyles()))
		return nil
	}
	_, err = w.Write(patch)
	return err
}

func describeInfo(path string, info *vocab.Info, words int) string {
	if info == nil || (info.Size == 0 && info.Encoding.Name == "") {
		return path
	}
	parts := []string{
		path,
		humanize.Bytes(uint64(info.Size)),
		info.Encoding.String(),
		humanize.Comma(int64(words)) + " words",
	}
	if info.Compressed {
		parts = append(parts, "compressed")
	}
	return strings.Join(parts, ", ")
}

func joinCodes(codes []string) string {
	return strings.Join(codes, ", ")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
