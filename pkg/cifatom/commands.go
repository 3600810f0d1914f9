package cifatom

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/andrew-torda/cifatom/pdb/cmmn"
	"github.com/andrew-torda/cifatom/pdb/geom"
	"github.com/andrew-torda/cifatom/pkg/scan"
)

// errSomeFailed is returned by commands that carry on after a bad file.
type errSomeFailed struct{ nBad, nTot int }

func (e errSomeFailed) Error() string {
	return fmt.Sprintf("%d of %d files could not be read", e.nBad, e.nTot)
}

// eachFile calls do for every name, logging failures and carrying on.
func (a *app) eachFile(names []string, do func(string) error) error {
	nBad := 0
	for _, fname := range names {
		if err := do(fname); err != nil {
			a.log.Error().Err(err).Str("file", fname).Msg("failed")
			nBad++
		}
	}
	if nBad != 0 {
		return errSomeFailed{nBad, len(names)}
	}
	return nil
}

func countCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count FILE...",
		Short: "Print the number of atoms in each file",
		Args:  wantArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return a.eachFile(args, func(fname string) error {
				n, err := a.ld.AtomCount(fname)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%d\n", fname, n)
				return nil
			})
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// optStr shows an absent value the way mmcif does, as a dot.
func optStr[T any](o cmmn.Opt[T]) string {
	if v, ok := o.Get(); ok {
		return fmt.Sprint(v)
	}
	return "."
}

func optFloat(o cmmn.Opt[float64]) string {
	if v, ok := o.Get(); ok {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return "."
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}

// writeAtoms prints one atom per line in columns.
func writeAtoms(w io.Writer, atoms []cmmn.Atom) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	fmt.Fprintln(tw, "id\tgroup\ttype\tatom\talt\tcomp\tasym\tentity\tseq\tins\tx\ty\tz\tocc\tb\tcharge\tauth_seq\tauth_comp\tauth_asym\tauth_atom\tmodel")
	for i := range atoms {
		at := &atoms[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%.3f\t%.3f\t%.3f\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			at.ID, at.Group, orDot(at.TypeSymbol), orDot(at.LabelAtomID), optStr(at.LabelAltID),
			orDot(at.LabelCompID), orDot(at.LabelAsymID), at.LabelEntityID, optStr(at.LabelSeqID),
			optStr(at.InsCode), at.X, at.Y, at.Z, optFloat(at.Occupancy), optFloat(at.BIsoOrEquiv),
			optStr(at.FormalCharge), optStr(at.AuthSeqID), orDot(at.AuthCompID),
			orDot(at.AuthAsymID), orDot(at.AuthAtomID), at.ModelNum)
	}
	return tw.Flush()
}

func atomsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "atoms FILE",
		Short: "Print every atom record",
		Args:  wantArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			atoms, err := a.ld.Atoms(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), atoms)
			}
			return writeAtoms(cmd.OutOrStdout(), atoms)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "write JSON instead of columns")
	return cmd
}

func positionsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "positions FILE",
		Short: "Print x, y and z of every atom",
		Args:  wantArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			xyz, err := a.ld.AtomPositions(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, xyz)
			}
			for _, x := range xyz {
				if _, err := fmt.Fprintf(out, "%8.3f %8.3f %8.3f\n", x.X, x.Y, x.Z); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "write JSON instead of columns")
	return cmd
}

// caBreaks counts chain breaks over the C alpha atoms of every chain.
func caBreaks(chns cmmn.ChnSl) int {
	n := 0
	for _, c := range chns {
		var ca cmmn.XyzSl
		for i := range c.Atoms {
			if c.Atoms[i].Group == cmmn.GroupAtom && c.Atoms[i].LabelAtomID == "CA" {
				ca = append(ca, c.Atoms[i].Xyz())
			}
		}
		n += geom.ChainBreaks(ca)
	}
	return n
}

// summarise writes a few lines about one file.
func (a *app) summarise(w io.Writer, fname string) error {
	atoms, err := a.ld.Atoms(fname)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "file\t%s\n", fname)
	fmt.Fprintf(w, "atoms\t%s\n", humanize.Comma(int64(len(atoms))))
	if len(atoms) == 0 {
		return nil
	}
	chns := cmmn.GetChains(atoms)
	xyz := make(cmmn.XyzSl, len(atoms))
	for i := range atoms {
		xyz[i] = atoms[i].Xyz()
	}
	cntr, _ := geom.Centroid(xyz) // cannot fail, there are atoms
	lo, hi, _ := geom.Bounds(xyz)
	rg, _ := geom.RadiusOfGyration(xyz)
	fmt.Fprintf(w, "chains\t%d %v\n", len(chns), chns.ChainNames())
	fmt.Fprintf(w, "models\t%d\n", chns.NModel())
	fmt.Fprintf(w, "centroid\t%.3f %.3f %.3f\n", cntr.X, cntr.Y, cntr.Z)
	fmt.Fprintf(w, "bounds\t%.3f %.3f %.3f to %.3f %.3f %.3f\n", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
	fmt.Fprintf(w, "rgyr\t%.3f\n", rg)
	fmt.Fprintf(w, "ca_breaks\t%d\n", caBreaks(chns))
	return nil
}

func summaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary FILE...",
		Short: "Print atoms, chains, models and simple geometry of each file",
		Args:  wantArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return a.eachFile(args, func(fname string) error { return a.summarise(out, fname) })
		},
	}
}

func scanCmd(a *app) *cobra.Command {
	var outName string
	cmd := &cobra.Command{
		Use:   "scan DIR",
		Short: "Read every mmcif file under DIR and count the elements",
		Args:  wantArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := a.cfg.Scan
			names, err := scan.Files(args[0], sc.MaxFiles)
			if err != nil {
				return err
			}
			a.log.Info().Int("files", len(names)).Str("dir", args[0]).Msg("scanning")
			res, err := scan.Run(cmd.Context(), a.ld, names,
				scan.Options{Workers: sc.Workers, MaxFiles: sc.MaxFiles, MaxErrors: sc.MaxErrors})
			if err != nil {
				return err
			}
			a.log.Info().Str("atoms", humanize.Comma(int64(res.NAtom))).Msg("scanned")
			out := cmd.OutOrStdout()
			if outName != "" {
				fp, err := os.Create(outName)
				if err != nil {
					return err
				}
				defer fp.Close()
				out = fp
			}
			return scan.WriteCSV(out, res.Elements)
		},
	}
	f := cmd.Flags()
	f.IntP("readers", "r", 0, "number of files to read at once")
	f.IntP("max-files", "f", 0, "stop after this many files, 0 for all")
	f.Int("max-errors", 0, "give up after this many broken files")
	f.StringVarP(&outName, "output", "o", "", "write the CSV here instead of stdout")
	a.v.BindPFlag("scan.workers", f.Lookup("readers"))
	a.v.BindPFlag("scan.max_files", f.Lookup("max-files"))
	a.v.BindPFlag("scan.max_errors", f.Lookup("max-errors"))
	return cmd
}

func configCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the configuration in use as YAML",
		Args:  wantArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(a.cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
