package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mdconv/mdconv"
	"github.com/mdconv/mdconv/chemplot"
	"github.com/mdconv/mdconv/gro"
	"github.com/mdconv/mdconv/internal/config"
	"github.com/mdconv/mdconv/internal/scratch"
	"github.com/mdconv/mdconv/internal/zio"
	"github.com/mdconv/mdconv/traj/amber"
	"github.com/mdconv/mdconv/traj/dcd"
)

// scratchPrefix starts the names of the temporary files.
const scratchPrefix = ".mdconv_"

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "mdconv",
		Usage:   "Convert trajectories between GROMACS GRO, AMBER mdcrd and CHARMM/NAMD DCD",
		Version: Version,
		Commands: []*cli.Command{
			infoCmd(),
			toGROCmd(),
			toMdcrdCmd(),
			dcdToGROCmd(),
			groToDCDCmd(),
			boxPlotCmd(),
			runCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// rangeFlags are the frame selection flags shared by the conversions.
func rangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "begin", Aliases: []string{"b"}, Usage: "First frame to convert, counting from 0"},
		&cli.IntFlag{Name: "end", Aliases: []string{"e"}, Usage: "Frame where the conversion stops (not converted, 0 for all)"},
		&cli.IntFlag{Name: "offset", Value: 1, Usage: "Output interval"},
		&cli.BoolFlag{Name: "overwrite", Aliases: []string{"O"}, Usage: "Overwrite the output file if it exists"},
		&cli.StringFlag{Name: "temp-dir", Aliases: []string{"sc"}, Usage: "Directory for temporary files (default: that of the output)"},
	}
}

func jobFromFlags(c *cli.Context, mode config.Mode) *config.Job {
	return &config.Job{
		Mode:      mode,
		Input:     c.String("input"),
		Template:  c.String("template"),
		Output:    c.String("output"),
		Box:       c.Bool("box"),
		Title:     c.String("title"),
		Begin:     c.Int("begin"),
		End:       c.Int("end"),
		Offset:    c.Int("offset"),
		Overwrite: c.Bool("overwrite"),
		TempDir:   c.String("temp-dir"),
	}
}

// toGROCmd creates the mdcrd2gro command.
func toGROCmd() *cli.Command {
	return &cli.Command{
		Name:  "mdcrd2gro",
		Usage: "Convert an AMBER mdcrd trajectory to GRO, using a GRO file as template",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Required: true, Usage: "GRO file with the atoms of the system"},
			&cli.StringFlag{Name: "input", Aliases: []string{"x"}, Required: true, Usage: "AMBER trajectory (.mdcrd, .crd, optionally .gz or .zst)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "GRO trajectory to write"},
			&cli.BoolFlag{Name: "box", Usage: "The AMBER trajectory has a box line per frame"},
		}, rangeFlags()...),
		Action: func(c *cli.Context) error {
			return runJob(c.Context, jobFromFlags(c, config.MToGRO), c.App.Writer)
		},
	}
}

// toMdcrdCmd creates the gro2mdcrd command.
func toMdcrdCmd() *cli.Command {
	return &cli.Command{
		Name:  "gro2mdcrd",
		Usage: "Convert a GRO trajectory to AMBER mdcrd",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"x"}, Required: true, Usage: "GRO trajectory (optionally .gz or .zst)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "AMBER trajectory to write"},
			&cli.StringFlag{Name: "title", Usage: "Title of the AMBER trajectory (default: that of the first GRO frame)"},
		}, rangeFlags()...),
		Action: func(c *cli.Context) error {
			return runJob(c.Context, jobFromFlags(c, config.MToMdcrd), c.App.Writer)
		},
	}
}

// dcdToGROCmd creates the dcd2gro command.
func dcdToGROCmd() *cli.Command {
	return &cli.Command{
		Name:  "dcd2gro",
		Usage: "Convert a CHARMM/NAMD DCD trajectory to GRO, using a GRO file as template",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Required: true, Usage: "GRO file with the atoms of the system"},
			&cli.StringFlag{Name: "input", Aliases: []string{"x"}, Required: true, Usage: "DCD trajectory (optionally .gz or .zst)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "GRO trajectory to write"},
		}, rangeFlags()...),
		Action: func(c *cli.Context) error {
			return runJob(c.Context, jobFromFlags(c, config.DToGRO), c.App.Writer)
		},
	}
}

// groToDCDCmd creates the gro2dcd command.
func groToDCDCmd() *cli.Command {
	return &cli.Command{
		Name:  "gro2dcd",
		Usage: "Convert a GRO trajectory to CHARMM/NAMD DCD",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"x"}, Required: true, Usage: "GRO trajectory (optionally .gz or .zst)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "DCD trajectory to write (not compressed)"},
			&cli.StringFlag{Name: "title", Usage: "Title of the DCD trajectory (default: that of the first GRO frame)"},
		}, rangeFlags()...),
		Action: func(c *cli.Context) error {
			return runJob(c.Context, jobFromFlags(c, config.GROToD), c.App.Writer)
		},
	}
}

// runCmd creates the run command.
func runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run the conversion described in a YAML job file",
		ArgsUsage: "JOB.yaml",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("run takes exactly one job file", 1)
			}
			job, err := config.Load(c.Args().First())
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return runJob(c.Context, job, c.App.Writer)
		},
	}
}

// infoCmd creates the info command.
func infoCmd() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Describe the frames of a GRO file, or the header of a DCD file",
		ArgsUsage: "FILE.gro|FILE.dcd",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print the description as JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("info takes exactly one file", 1)
			}
			name := c.Args().First()
			if isDCD(name) {
				info, err := describeDCD(name)
				if err != nil {
					return outputError(err)
				}
				if c.Bool("json") {
					return outputJSON(c.App.Writer, info)
				}
				fmt.Fprintf(c.App.Writer, "%s: %d atoms  frames: %d  box: %t\n%s\n", info.File, info.Atoms, info.Frames, info.Box, info.Title)
				return nil
			}
			T, err := gro.ReadFile(name)
			if err != nil {
				return outputError(err)
			}
			info, err := describe(T)
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(c.App.Writer, info)
			}
			printInfo(c.App.Writer, info)
			return nil
		},
	}
}

// boxPlotCmd creates the boxplot command.
func boxPlotCmd() *cli.Command {
	return &cli.Command{
		Name:  "boxplot",
		Usage: "Plot the box vector lengths of a GRO trajectory to PNG",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"x"}, Required: true, Usage: "GRO trajectory"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "PNG file to write"},
			&cli.StringFlag{Name: "title", Value: "Box", Usage: "Plot title"},
			&cli.BoolFlag{Name: "overwrite", Aliases: []string{"O"}, Usage: "Overwrite the output file if it exists"},
		},
		Action: func(c *cli.Context) error {
			out := c.String("output")
			if err := checkOverwrite(out, c.Bool("overwrite")); err != nil {
				return outputError(err)
			}
			T, err := gro.ReadFile(c.String("input"))
			if err != nil {
				return outputError(err)
			}
			if err := chemplot.BoxPlot(T.Boxes(), c.String("title"), out); err != nil {
				return outputError(err)
			}
			fmt.Fprintf(c.App.Writer, "wrote %s\n", out)
			return nil
		},
	}
}

type frameInfo struct {
	Index      int       `json:"index"`
	Title      string    `json:"title"`
	Atoms      int       `json:"atoms"`
	Residues   int       `json:"residues"`
	Velocities bool      `json:"velocities"`
	Box        []float64 `json:"box"`
}

type fileInfo struct {
	File   string      `json:"file"`
	Frames []frameInfo `json:"frames"`
}

type dcdInfo struct {
	File   string `json:"file"`
	Title  string `json:"title"`
	Atoms  int    `json:"atoms"`
	Frames int    `json:"frames"`
	Box    bool   `json:"box"`
}

func isDCD(name string) bool {
	return strings.EqualFold(filepath.Ext(zio.Strip(name)), ".dcd")
}

// describeDCD reads the header of a DCD file. The number of frames is
// counted, since the one in the header can't be trusted.
func describeDCD(name string) (*dcdInfo, error) {
	D, err := dcd.New(name)
	if err != nil {
		return nil, err
	}
	defer D.Close()
	info := &dcdInfo{File: name, Title: D.Title(), Atoms: D.Len(), Box: D.HasBox()}
	for {
		err := D.Next(nil)
		if err != nil {
			var last mdconv.LastFrameError
			if errors.As(err, &last) {
				break
			}
			return nil, err
		}
		info.Frames++
	}
	return info, nil
}

func describe(T *gro.Trajectory) (*fileInfo, error) {
	info := &fileInfo{File: T.FileName(), Frames: make([]frameInfo, 0, T.Len())}
	for _, i := range T.FrameIndexes() {
		F, err := T.Frame(i)
		if err != nil {
			return nil, err
		}
		res, err := T.Get(i, gro.ResidueIndex, true)
		if err != nil {
			return nil, err
		}
		info.Frames = append(info.Frames, frameInfo{
			Index:      i,
			Title:      F.Title,
			Atoms:      F.NAtoms,
			Residues:   len(res.Ints),
			Velocities: F.HasVel,
			Box:        append([]float64{}, F.Box...),
		})
	}
	return info, nil
}

func printInfo(w io.Writer, info *fileInfo) {
	fmt.Fprintf(w, "%s: %d frames\n", info.File, len(info.Frames))
	for _, f := range info.Frames {
		vel := "no"
		if f.Velocities {
			vel = "yes"
		}
		fmt.Fprintf(w, "%5d  %q  atoms: %d  residues: %d  velocities: %s  box: %v\n", f.Index, f.Title, f.Atoms, f.Residues, vel, f.Box)
	}
}

// checkOverwrite returns an error if name exists and overwrite is false.
func checkOverwrite(name string, overwrite bool) error {
	if overwrite {
		return nil
	}
	_, err := os.Stat(name)
	if err == nil {
		return fmt.Errorf("%s already exists, use -O to overwrite it", name)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// scratchSuffix returns the extensions of name, compression included,
// so a scratch file is written in the same format as name.
func scratchSuffix(name string) string {
	base := zio.Strip(name)
	return filepath.Ext(base) + name[len(base):]
}

// runJob runs a conversion. The output is first written to a scratch file
// that is renamed into place only when the conversion succeeds; scratch
// files are removed on return and on interrupt.
func runJob(ctx context.Context, job *config.Job, w io.Writer) error {
	if err := job.Check(); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := checkOverwrite(job.Output, job.Overwrite); err != nil {
		return outputError(err)
	}
	dir := job.TempDir
	if dir == "" {
		dir = filepath.Dir(job.Output)
	}
	set := scratch.New(dir, scratchPrefix)
	stop := scratch.Guard(ctx, set)
	defer func() {
		stop()
		if err := set.Cleanup(); err != nil {
			log.Printf("mdconv: removing temporary files: %v", err)
		}
	}()
	tmp := set.Path(scratchSuffix(job.Output))
	r := mdconv.FrameRange{Begin: job.Begin, End: job.End, Offset: job.Offset}

	var n int
	var err error
	switch job.Mode {
	case config.MToGRO, config.DToGRO:
		n, err = toGRO(ctx, job, r, tmp)
	case config.MToMdcrd, config.GROToD:
		n, err = fromGRO(ctx, job, r, tmp)
	}
	if err != nil {
		return outputError(err)
	}
	if err := ctx.Err(); err != nil {
		return outputError(err)
	}
	if err := os.Rename(tmp, job.Output); err != nil {
		return outputError(err)
	}
	set.Release(tmp)
	fmt.Fprintf(w, "wrote %d frames to %s\n", n, job.Output)
	return nil
}

func toGRO(ctx context.Context, job *config.Job, r mdconv.FrameRange, tmp string) (int, error) {
	tmpl, err := gro.ReadFile(job.Template)
	if err != nil {
		return 0, err
	}
	first, err := tmpl.Frame(0)
	if err != nil {
		return 0, err
	}
	if tmpl.Len() > 1 {
		log.Printf("mdconv: only the first of the %d frames of %s is used as template", tmpl.Len(), job.Template)
	}
	T := gro.New()
	if _, err := T.Append(first); err != nil {
		return 0, err
	}
	src, err := openSource(job, first.NAtoms)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	n, err := mdconv.IngestContext(ctx, T, src, mdconv.A2nm, r)
	if err != nil {
		return n, err
	}
	return n, T.WriteFile(tmp)
}

type source interface {
	mdconv.Traj
	io.Closer
}

type sink interface {
	mdconv.FrameWriter
	io.Closer
}

// openSource opens the input trajectory of a conversion to GRO.
func openSource(job *config.Job, natoms int) (source, error) {
	if job.Mode == config.DToGRO {
		return dcd.New(job.Input)
	}
	return amber.New(job.Input, natoms, job.Box)
}

// createSink creates the output trajectory of a conversion from GRO.
func createSink(job *config.Job, tmp, title string, natoms int, box bool) (sink, error) {
	if job.Mode == config.GROToD {
		return dcd.NewWriter(tmp, title, natoms, box)
	}
	return amber.NewWriter(tmp, title, natoms, box)
}

func fromGRO(ctx context.Context, job *config.Job, r mdconv.FrameRange, tmp string) (int, error) {
	T, err := gro.ReadFile(job.Input)
	if err != nil {
		return 0, err
	}
	natoms, err := T.NAtoms(0)
	if err != nil {
		return 0, err
	}
	box, _ := T.Box(0)
	title := job.Title
	if title == "" {
		title, _ = T.Title(0)
	}
	W, err := createSink(job, tmp, strings.TrimSpace(title), natoms, len(box) > 0)
	if err != nil {
		return 0, err
	}
	n, err := mdconv.ExportContext(ctx, W, T, mdconv.Nm2A, r)
	if err2 := W.Close(); err == nil {
		err = err2
	}
	return n, err
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError turns err into a cli exit error, with the chain of functions
// it went through when there is one.
func outputError(err error) error {
	if trace := mdconv.Trace(err); trace != "" {
		return cli.Exit(fmt.Sprintf("%v (%s)", err, trace), 1)
	}
	return cli.Exit(err.Error(), 1)
}
