package minkowski

import (
	"flag"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Args holds the training configuration.
type Args struct {
	Input  string
	Output string

	Dimension    int
	Epochs       int
	BurninEpochs int

	StartLR     float64
	EndLR       float64
	BurninLR    float64
	MaxStepSize float64

	WindowSize        int
	MinCount          int
	T                 float64
	NumberNegatives   int
	DistributionPower float64
	InitStdDev        float64

	Threads            int
	Seed               int
	CheckpointInterval int
}

// DefaultArgs returns the default training configuration.
func DefaultArgs() *Args {
	return &Args{
		Dimension:          100,
		Epochs:             5,
		BurninEpochs:       0,
		StartLR:            0.05,
		EndLR:              0.05,
		BurninLR:           0.05,
		MaxStepSize:        2.0,
		WindowSize:         5,
		MinCount:           5,
		T:                  1e-4,
		NumberNegatives:    5,
		DistributionPower:  0.5,
		InitStdDev:         0.1,
		Threads:            12,
		Seed:               1,
		CheckpointInterval: -1,
	}
}

// Parse fills in the configuration from command-line arguments.  On any
// parse failure, and on -h, it prints usage information to w and returns a
// non-nil error; no training work is done in that case.
func (a *Args) Parse(arguments []string, w io.Writer) error {
	fs := flag.NewFlagSet("minkowski", flag.ContinueOnError)
	fs.SetOutput(w)

	fs.StringVar(&a.Input, "input", a.Input, "training file path")
	fs.StringVar(&a.Output, "output", a.Output, "output file path (final vectors are written to <output>.csv)")
	fs.IntVar(&a.Dimension, "dimension", a.Dimension, "dimension of the Minkowski ambient space")
	fs.IntVar(&a.Epochs, "epochs", a.Epochs, "number of epochs with learning rate linearly decreasing from -start-lr to -end-lr")
	fs.IntVar(&a.BurninEpochs, "burnin-epochs", a.BurninEpochs, "number of extra preliminary epochs with the burn-in learning rate")
	fs.Float64Var(&a.StartLR, "start-lr", a.StartLR, "start learning rate")
	fs.Float64Var(&a.EndLR, "end-lr", a.EndLR, "end learning rate")
	fs.Float64Var(&a.BurninLR, "burnin-lr", a.BurninLR, "fixed learning rate for the burn-in epochs")
	fs.Float64Var(&a.MaxStepSize, "max-step-size", a.MaxStepSize, "maximum distance to travel in one update")
	fs.IntVar(&a.WindowSize, "window-size", a.WindowSize, "size of the context window")
	fs.IntVar(&a.MinCount, "min-count", a.MinCount, "minimal number of word occurrences")
	fs.Float64Var(&a.T, "t", a.T, "sub-sampling threshold (0 disables subsampling)")
	fs.IntVar(&a.NumberNegatives, "number-negatives", a.NumberNegatives, "number of negatives sampled per positive")
	fs.Float64Var(&a.DistributionPower, "distribution-power", a.DistributionPower, "power applied to word counts for negative sampling")
	fs.Float64Var(&a.InitStdDev, "init-std-dev", a.InitStdDev, "stddev of the hyperbolic distance from the basepoint at initialization")
	fs.IntVar(&a.Threads, "threads", a.Threads, "number of threads")
	fs.IntVar(&a.Seed, "seed", a.Seed, "seed for the random number generator (n.b. only deterministic if single threaded!)")
	fs.IntVar(&a.CheckpointInterval, "checkpoint-interval", a.CheckpointInterval, "save vectors every this many epochs (<= 0 disables checkpointing)")

	fs.Usage = func() {
		fmt.Fprintf(w, "Usage: minkowski -input <corpus> -output <prefix> [options]\n\n")
		fmt.Fprintf(w, "Trains hyperbolic word embeddings on the upper sheet of the hyperboloid\n")
		fmt.Fprintf(w, "in Minkowski space, using skip-gram with negative sampling.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(arguments); err != nil {
		// flag has already printed the error and the usage text
		return err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(w, "unexpected positional argument: %s\n", fs.Arg(0))
		fs.Usage()
		return errors.Errorf("unexpected positional argument: %s", fs.Arg(0))
	}
	if a.Input == "" || a.Output == "" {
		fmt.Fprintln(w, "empty input or output path")
		fs.Usage()
		return errors.New("empty input or output path")
	}
	return nil
}
