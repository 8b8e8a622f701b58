package minkowski

import (
	"bytes"
	"strings"
	"testing"
)

func TestDefaultArgs(t *testing.T) {
	args := DefaultArgs()
	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"Dimension", args.Dimension, 100},
		{"Epochs", args.Epochs, 5},
		{"BurninEpochs", args.BurninEpochs, 0},
		{"StartLR", args.StartLR, 0.05},
		{"EndLR", args.EndLR, 0.05},
		{"BurninLR", args.BurninLR, 0.05},
		{"MaxStepSize", args.MaxStepSize, 2.0},
		{"WindowSize", args.WindowSize, 5},
		{"MinCount", args.MinCount, 5},
		{"T", args.T, 1e-4},
		{"NumberNegatives", args.NumberNegatives, 5},
		{"DistributionPower", args.DistributionPower, 0.5},
		{"InitStdDev", args.InitStdDev, 0.1},
		{"Threads", args.Threads, 12},
		{"Seed", args.Seed, 1},
		{"CheckpointInterval", args.CheckpointInterval, -1},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Errorf("default %s = %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestParseArgs(t *testing.T) {
	args := DefaultArgs()
	var out bytes.Buffer
	err := args.Parse([]string{
		"-input", "corpus.txt",
		"-output", "vectors",
		"-dimension", "10",
		"-epochs", "2",
		"-burnin-epochs", "1",
		"-start-lr", "0.1",
		"-end-lr", "0.01",
		"-threads", "3",
		"-checkpoint-interval", "2",
	}, &out)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if args.Input != "corpus.txt" || args.Output != "vectors" {
		t.Errorf("paths = %q, %q", args.Input, args.Output)
	}
	if args.Dimension != 10 || args.Epochs != 2 || args.BurninEpochs != 1 {
		t.Errorf("ints = %d, %d, %d", args.Dimension, args.Epochs, args.BurninEpochs)
	}
	if args.StartLR != 0.1 || args.EndLR != 0.01 {
		t.Errorf("lrs = %v, %v", args.StartLR, args.EndLR)
	}
	if args.Threads != 3 || args.CheckpointInterval != 2 {
		t.Errorf("threads = %d, checkpoint interval = %d", args.Threads, args.CheckpointInterval)
	}
}

func TestParseArgsMissingPaths(t *testing.T) {
	args := DefaultArgs()
	var out bytes.Buffer
	if err := args.Parse([]string{"-dimension", "10"}, &out); err == nil {
		t.Fatal("expected an error without -input and -output")
	}
	if !strings.Contains(out.String(), "Usage") {
		t.Error("usage text not printed on missing paths")
	}
}

func TestParseArgsUnknownFlag(t *testing.T) {
	args := DefaultArgs()
	var out bytes.Buffer
	if err := args.Parse([]string{"-input", "a", "-output", "b", "-bogus", "1"}, &out); err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
}

func TestParseArgsBadValue(t *testing.T) {
	args := DefaultArgs()
	var out bytes.Buffer
	if err := args.Parse([]string{"-input", "a", "-output", "b", "-dimension", "ten"}, &out); err == nil {
		t.Fatal("expected an error for a non-numeric value")
	}
}

func TestParseArgsHelp(t *testing.T) {
	args := DefaultArgs()
	var out bytes.Buffer
	if err := args.Parse([]string{"-h"}, &out); err == nil {
		t.Fatal("expected a non-nil error for -h")
	}
	if !strings.Contains(out.String(), "Usage") {
		t.Error("usage text not printed for -h")
	}
}
