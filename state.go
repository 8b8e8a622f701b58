package minkowski

import (
	"encoding/gob"
	"os"

	"github.com/pkg/errors"
)

// ModelState is the serializable snapshot of a trained (or partially
// trained) model: the vocabulary, the embedding table and the
// hyperparameters needed to interpret them.
type ModelState struct {
	Dimension int
	Words     []string
	Counts    []int64
	Vectors   []Vector

	StartLR           float64
	EndLR             float64
	MaxStepSize       float64
	WindowSize        int
	NumberNegatives   int
	DistributionPower float64
}

// SaveModelState writes the model snapshot to a file using gob encoding.
func (m *Minkowski) SaveModelState(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot open %s for saving model state", path)
	}
	defer f.Close()

	state := ModelState{
		Dimension:         m.args.Dimension,
		Words:             m.wordList(),
		Counts:            m.dict.Counts(),
		Vectors:           m.vectors,
		StartLR:           m.args.StartLR,
		EndLR:             m.args.EndLR,
		MaxStepSize:       m.args.MaxStepSize,
		WindowSize:        m.args.WindowSize,
		NumberNegatives:   m.args.NumberNegatives,
		DistributionPower: m.args.DistributionPower,
	}
	if err := gob.NewEncoder(f).Encode(state); err != nil {
		return errors.Wrapf(err, "cannot encode model state to %s", path)
	}
	return nil
}

// LoadModelState reads a model snapshot previously written by
// SaveModelState.
func LoadModelState(path string) (*ModelState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s for loading model state", path)
	}
	defer f.Close()

	var state ModelState
	if err := gob.NewDecoder(f).Decode(&state); err != nil {
		return nil, errors.Wrapf(err, "cannot decode model state from %s", path)
	}
	return &state, nil
}
