// Package cifatom has the commands behind the cifatom program. The main
// function only calls Execute, so everything can be tested from here.
package cifatom

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/andrew-torda/cifatom/pdb"
	"github.com/andrew-torda/cifatom/pkg/config"
	"github.com/andrew-torda/cifatom/pkg/logwhere"
)

const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

// usageError is for bad flags and the wrong number of arguments.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

// wantArgs marks argument count errors as usage errors.
func wantArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// app is the state shared by the commands. The root command fills it
// before any subcommand runs.
type app struct {
	v       *viper.Viper
	cfgFile string
	noMmap  bool
	cfg     *config.Config
	log     zerolog.Logger
	closer  io.Closer
	ld      *pdb.Loader
}

// setup reads the configuration and builds the logger and file loader.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.noMmap {
		a.v.Set("read.mmap", false)
	}
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	log, closer, err := logwhere.New(cfg.Log.File, cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return err
	}
	a.cfg, a.log, a.closer = cfg, log, closer
	a.ld = pdb.NewLoader(log, cfg.Read.Mmap)
	a.log.Debug().Str("cmd", cmd.Name()).Bool("mmap", cfg.Read.Mmap).Msg("starting")
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		a.closer.Close()
	}
}

// newRootCmd builds the whole command tree around a.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "cifatom",
		Short: "Read the atom_site table of mmcif files",
		Long: `cifatom reads the atom_site table of PDBx/mmCIF files, compressed or not,
and prints atom counts, atoms, coordinates or a summary of the structure.

Configuration:
  1. --config flag (explicit path)
  2. ./cifatom.yaml
  3. $HOME/.config/cifatom/cifatom.yaml

Environment Variables:
  CIFATOM_LOG_LEVEL, CIFATOM_LOG_FILE, CIFATOM_LOG_JSON, CIFATOM_READ_MMAP,
  CIFATOM_SCAN_WORKERS, CIFATOM_SCAN_MAX_FILES, CIFATOM_SCAN_MAX_ERRORS`,
		Args: wantArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return usageError{errors.New("no command given")}
		},
		PersistentPreRunE: a.setup,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is ./cifatom.yaml or $HOME/.config/cifatom/cifatom.yaml)")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-file", "", `where logging goes: "", stdout, stderr or a file name`)
	pf.BoolVar(&a.noMmap, "no-mmap", false, "read files instead of mapping them into memory")
	a.v.BindPFlag("log.level", pf.Lookup("log-level"))
	a.v.BindPFlag("log.file", pf.Lookup("log-file"))

	root.AddCommand(countCmd(a))
	root.AddCommand(atomsCmd(a))
	root.AddCommand(positionsCmd(a))
	root.AddCommand(summaryCmd(a))
	root.AddCommand(scanCmd(a))
	root.AddCommand(configCmd(a))
	return root
}

// Execute runs the command line in args and returns the exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{v: config.New(), log: zerolog.Nop()}
	defer a.close()
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintln(stderr, "cifatom:", err)
	var uerr usageError
	if errors.As(err, &uerr) {
		fmt.Fprintln(stderr, cmd.UsageString())
		return ExitUsageError
	}
	return ExitFailure
}
