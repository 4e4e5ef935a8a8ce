// Package cmd contains all CLI commands for vocabdiff.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vocabdiff/internal/app"
	"vocabdiff/internal/config"
	"vocabdiff/internal/log"
)

// errLoadFailed marks a run where a file could not be loaded. The warnings
// have already been printed.
var errLoadFailed = errors.New("one or more files failed to load")

// state is shared by the root command and its subcommands.
type state struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.AppConfig
	logs    io.Closer
}

// Execute runs the root command and prints any error it returns.
func Execute() error {
	root := newRootCmd()
	err := root.Execute()
	if err != nil && !errors.Is(err, errLoadFailed) {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return err
}

func newRootCmd() *cobra.Command {
	st := &state{v: config.NewViper()}
	d := config.Defaults()

	root := &cobra.Command{
		Use:   "vocabdiff [OLD [NEW]]",
		Short: "Compare two input-method vocabulary files",
		Long: `vocabdiff compares two vocabulary files (one "word code" pair per line)
and shows the words that were added, removed or changed.

Running 'vocabdiff' opens the interactive TUI. Paths given as arguments are
preselected; press c to compare.

Files are decoded after guessing their charset; .gz and .dz files are
decompressed first.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The TUI owns the terminal, so its logs go nowhere unless
			// VOCABDIFF_LOG_FILE is set.
			var w io.Writer = cmd.ErrOrStderr()
			if !cmd.HasParent() {
				w = io.Discard
			}
			return st.init(w)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if st.logs != nil {
				st.logs.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(st, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&st.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/vocabdiff/config.yaml)")
	pf.Bool("multi-code", d.MultiCode, "keep every code of a repeated word instead of the last one")
	pf.Bool("reciprocal", d.Reciprocal, "also index each code as a word (for files with the columns swapped)")
	pf.String("encoding", d.Encoding, "decode every file with this charset instead of detecting it")
	pf.String("fallback-encoding", d.FallbackEncoding, "charset tried when no detected charset decodes a file")
	pf.Int("min-confidence", d.MinConfidence, "lowest detector confidence (0-100) worth trying")
	pf.Bool("sort", d.Sort, "order results by word instead of file order")

	bind(st.v, pf.Lookup("multi-code"), config.KeyMultiCode)
	bind(st.v, pf.Lookup("reciprocal"), config.KeyReciprocal)
	bind(st.v, pf.Lookup("encoding"), config.KeyEncoding)
	bind(st.v, pf.Lookup("fallback-encoding"), config.KeyFallbackEncoding)
	bind(st.v, pf.Lookup("min-confidence"), config.KeyMinConfidence)
	bind(st.v, pf.Lookup("sort"), config.KeySort)

	root.AddCommand(newReportCmd(st), newDetectCmd(st))
	return root
}

// init reads the config file, applies flags and env, and starts logging.
func (st *state) init(w io.Writer) error {
	closer, err := log.Init(w)
	if err != nil {
		return err
	}
	st.logs = closer

	path := st.cfgFile
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	} else if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	if err := config.ReadFile(st.v, path); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	cfg, err := config.Decode(st.v)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	st.cfg = cfg
	log.Infof("config %s", path)
	log.Debugf("settings: %+v", cfg)
	return nil
}

func runTUI(st *state, args []string) error {
	opts := app.Options{Config: st.cfg}
	if len(args) > 0 {
		opts.OldPath = args[0]
	}
	if len(args) > 1 {
		opts.NewPath = args[1]
	}

	p := tea.NewProgram(app.NewModel(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Errorf("running TUI: %v", err)
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
