package main

import (
	"fmt"
	"os"

	minkowski "github.com/n0madic/go-minkowski"
)

func main() {
	args := minkowski.DefaultArgs()
	if err := args.Parse(os.Args[1:], os.Stderr); err != nil {
		os.Exit(1)
	}

	trainer := minkowski.New(args)
	if err := trainer.Train(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := trainer.SaveVectors(args.Output); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
