package minkowski

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// floatDigits is the number of significant digits written for every vector
// component, enough to round-trip a float64.
const floatDigits = 17

// SaveVectors writes the embedding table to prefix + ".csv", one word per
// line followed by its coordinates, in vocabulary id order.
func (m *Minkowski) SaveVectors(prefix string) error {
	logger.Infof("Saving vectors to %s.csv", prefix)
	return WriteVectorsFile(prefix+".csv", m.wordList(), m.vectors)
}

// SaveBallVectors writes the Poincare-ball projection of the embedding
// table to prefix + ".csv".  Ball points live in one dimension lower; the
// zeroed time-like coordinate is not written.
func (m *Minkowski) SaveBallVectors(prefix string) error {
	ball := make([]Vector, len(m.vectors))
	for i, v := range m.vectors {
		b := v.Clone()
		b.ToBallPoint()
		ball[i] = b[:len(b)-1]
	}
	logger.Infof("Saving ball vectors to %s.csv", prefix)
	return WriteVectorsFile(prefix+".csv", m.wordList(), ball)
}

func (m *Minkowski) wordList() []string {
	words := make([]string, m.dict.NWords())
	for i := range words {
		words[i] = m.dict.Word(int32(i))
	}
	return words
}

// WriteVectorsFile writes words and their vectors to a text file: one word
// per line, coordinates separated by single spaces, no header.
func WriteVectorsFile(path string, words []string, vectors []Vector) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot open %s for saving vectors", path)
	}
	w := bufio.NewWriter(f)
	var buf []byte
	for i, word := range words {
		buf = buf[:0]
		buf = append(buf, word...)
		for _, x := range vectors[i] {
			buf = append(buf, ' ')
			buf = strconv.AppendFloat(buf, x, 'g', floatDigits, 64)
		}
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			f.Close()
			return errors.Wrapf(err, "cannot write vectors to %s", path)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "cannot write vectors to %s", path)
	}
	return errors.Wrapf(f.Close(), "cannot close %s", path)
}

// LoadVectorsFile reads a vectors file produced by WriteVectorsFile back
// into a word list and a vector table.
func LoadVectorsFile(path string) ([]string, []Vector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "cannot open %s for loading vectors", path)
	}
	defer f.Close()

	var words []string
	var vectors []Vector
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		vec := NewVector(len(fields) - 1)
		for i, field := range fields[1:] {
			x, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "malformed vector for word %q in %s", fields[0], path)
			}
			vec[i] = x
		}
		words = append(words, fields[0])
		vectors = append(vectors, vec)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrapf(err, "cannot read vectors from %s", path)
	}
	return words, vectors, nil
}
