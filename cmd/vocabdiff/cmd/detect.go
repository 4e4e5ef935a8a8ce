package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"vocabdiff/internal/log"
	"vocabdiff/internal/vocab"
)

func newDetectCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "detect FILE...",
		Short: "Show the detected charset and line counts of vocabulary files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd.OutOrStdout(), cmd.ErrOrStderr(), st.cfg.LoadOptions(), args)
		},
	}
}

func runDetect(out, errOut io.Writer, opts vocab.LoadOptions, paths []string) error {
	tbl := table.New("FILE", "ENCODING", "SIZE", "WORDS", "LINES", "COMMENTS", "BLANK", "DUPLICATES").
		WithWriter(out).
		WithWidthFunc(runewidth.StringWidth)

	failed := 0
	for _, path := range paths {
		v, info, err := vocab.Load(path, opts)
		if err != nil {
			failed++
			log.Warnf("detect %s: %v", path, err)
			fmt.Fprintf(errOut, "warning: %v\n", err)
			continue
		}
		st := info.Stats
		tbl.AddRow(
			path,
			info.Encoding.String(),
			humanize.Bytes(uint64(info.Size)),
			humanize.Comma(int64(v.Len())),
			st.Lines,
			st.Comments,
			st.Blank,
			st.Duplicates,
		)
	}

	if failed < len(paths) {
		tbl.Print()
	}
	if failed > 0 {
		return errLoadFailed
	}
	return nil
}
