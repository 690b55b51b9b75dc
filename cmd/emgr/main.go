package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ShenWang9202/emgr"
	"github.com/ShenWang9202/emgr/config"
	"github.com/ShenWang9202/emgr/gramian"
	"github.com/ShenWang9202/emgr/matrix"
	"github.com/ShenWang9202/emgr/sim"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/vg"
)

var (
	gramianType string
	dt          float64
	tf          float64
	input       string
	flagVector  []int
	plotFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "emgr",
		Short: "empirical gramian framework",
	}

	runCmd := &cobra.Command{
		Use:   "run [job.yaml]",
		Short: "compute empirical gramian of a linear system job",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
	runCmd.Flags().StringVar(&gramianType, "type", "", "gramian type (c, o, x, y, s, i, j)")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "time step width")
	runCmd.Flags().Float64Var(&tf, "tf", 0, "time horizon")
	runCmd.Flags().StringVar(&input, "input", "", "input signal (i, s, c, a, r)")
	runCmd.Flags().IntSliceVar(&flagVector, "flags", nil, "option flag vector")
	runCmd.Flags().StringVar(&plotFile, "plot", "", "save singular value decay plot to file")

	refCmd := &cobra.Command{
		Use:   "reference [job.yaml]",
		Short: "compute reference gramians of a linear system job",
		Args:  cobra.ExactArgs(1),
		RunE:  runReference,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("emgr - EMpirical GRamian Framework (Version: %s)\n", emgr.Version)
		},
	}

	rootCmd.AddCommand(runCmd, refCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func mxFormat(m mat.Matrix) fmt.Formatter {
	return mat.Formatted(m, mat.Prefix(""), mat.Squeeze())
}

// load loads job file and applies command line overrides
func load(cmd *cobra.Command, path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}

	if cmd.Flags().Changed("type") {
		cfg.Type = gramianType
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("tf") {
		cfg.Tf = tf
	}
	if cmd.Flags().Changed("input") {
		cfg.Input = input
	}
	if cmd.Flags().Changed("flags") {
		cfg.Flags = flagVector
	}

	return cfg, nil
}

func printDecay(name string, w *mat.Dense) []float64 {
	sv := matrix.SingularValues(w)
	if len(sv) < 2 {
		return sv
	}

	graph := asciigraph.Plot(sv,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(name+" singular values"),
	)
	fmt.Println(graph)
	fmt.Println()

	return sv
}

func runJob(cmd *cobra.Command, args []string) error {
	cfg, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	m, err := cfg.Model()
	if err != nil {
		return fmt.Errorf("create model: %w", err)
	}

	gc, err := cfg.Gramian()
	if err != nil {
		return fmt.Errorf("create gramian config: %w", err)
	}

	nu, nx, ny := m.Dims()
	log.Printf("computing %s gramian: %d inputs, %d states, %d outputs", gc.Type, nu, nx, ny)

	w, err := gramian.Compute(m, gc)
	if err != nil {
		return fmt.Errorf("compute gramian: %w", err)
	}

	series := make(map[string][]float64)

	fmt.Printf("State gramian:\n%v\n\n", mxFormat(w.State))
	if sv := printDecay("state", w.State); len(sv) > 0 {
		series["state"] = sv
	}

	if w.Param != nil {
		fmt.Printf("Parameter gramian:\n%v\n\n", mxFormat(w.Param))
		if sv := printDecay("parameter", w.Param); len(sv) > 0 {
			series["parameter"] = sv
		}
	}

	if plotFile == "" {
		return nil
	}

	p, err := sim.NewDecayPlot(fmt.Sprintf("Empirical %s gramian", gc.Type), series)
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}

	if err := p.Save(5*vg.Inch, 4*vg.Inch, plotFile); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	log.Printf("decay plot saved to %s", plotFile)

	return nil
}

func runReference(cmd *cobra.Command, args []string) error {
	cfg, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	sys, err := cfg.LinearSystem()
	if err != nil {
		return fmt.Errorf("create system: %w", err)
	}

	refs := []struct {
		name string
		fn   func() (*mat.Dense, error)
	}{
		{"Controllability", sys.ControllabilityGramian},
		{"Observability", sys.ObservabilityGramian},
		{"Cross", sys.CrossGramian},
	}

	for _, r := range refs {
		w, err := r.fn()
		if err != nil {
			log.Printf("skipping %s gramian: %v", r.name, err)
			continue
		}
		fmt.Printf("%s gramian:\n%v\n\n", r.name, mxFormat(w))
	}

	return nil
}
