package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"
	"gonum.org/v1/gonum/stat"

	minkowski "github.com/n0madic/go-minkowski"
)

func main() {
	var (
		vectorsFile = flag.String("vectors", "", "Path to a trained vectors file (<prefix>.csv)")
		stateFile   = flag.String("state", "", "Path to a gob model state file (alternative to -vectors)")
		queryWords  = flag.String("words", "", "Comma-separated words to find hyperbolic nearest neighbours for")
		topN        = flag.Int("top-n", 10, "Number of nearest neighbours to show per query word")
		concurrency = flag.Int("concurrency", runtime.NumCPU(), "Maximum number of concurrent neighbour queries")
		ballOutput  = flag.String("ball-output", "", "If set, write the Poincare-ball projection of the vectors to <prefix>.csv")
		help        = flag.Bool("help", false, "Show usage information")
	)
	flag.Parse()

	if *help || (*vectorsFile == "" && *stateFile == "") {
		fmt.Printf("Hyperbolic Embedding Evaluation Utility\n\n")
		fmt.Printf("Usage: %s -vectors <prefix>.csv [options]\n\n", os.Args[0])
		fmt.Printf("Loads trained hyperboloid embeddings, reports radius statistics and\n")
		fmt.Printf("finds nearest neighbours under the hyperbolic distance.\n\nOptions:\n")
		flag.PrintDefaults()
		if *help {
			return
		}
		os.Exit(1)
	}

	words, vectors, err := loadEmbeddings(*vectorsFile, *stateFile)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Loaded %d word vectors of dimension %d\n", len(words), dimensionOf(vectors))

	reportRadiusStats(vectors)

	if *ballOutput != "" {
		if err := saveBallProjection(*ballOutput, words, vectors); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Wrote ball projection to %s.csv\n", *ballOutput)
	}

	if *queryWords != "" {
		runNeighbourQueries(words, vectors, strings.Split(*queryWords, ","), *topN, *concurrency)
	}
}

func loadEmbeddings(vectorsFile, stateFile string) ([]string, []minkowski.Vector, error) {
	if stateFile != "" {
		state, err := minkowski.LoadModelState(stateFile)
		if err != nil {
			return nil, nil, err
		}
		return state.Words, state.Vectors, nil
	}
	return minkowski.LoadVectorsFile(vectorsFile)
}

func dimensionOf(vectors []minkowski.Vector) int {
	if len(vectors) == 0 {
		return 0
	}
	return len(vectors[0])
}

// reportRadiusStats prints the distribution of hyperbolic distances from
// the basepoint, a quick sanity check on how far the embedding has spread.
func reportRadiusStats(vectors []minkowski.Vector) {
	if len(vectors) == 0 {
		return
	}
	basepoint := minkowski.NewVector(dimensionOf(vectors))
	basepoint[len(basepoint)-1] = 1

	radii := make([]float64, len(vectors))
	for i, v := range vectors {
		radii[i] = minkowski.Distance(basepoint, v)
	}
	mean, std := stat.MeanStdDev(radii, nil)
	fmt.Printf("Distance from basepoint: mean %.4f, stddev %.4f\n", mean, std)
}

func saveBallProjection(prefix string, words []string, vectors []minkowski.Vector) error {
	ball := make([]minkowski.Vector, len(vectors))
	for i, v := range vectors {
		b := v.Clone()
		b.ToBallPoint()
		ball[i] = b[:len(b)-1]
	}
	return minkowski.WriteVectorsFile(prefix+".csv", words, ball)
}

type neighbour struct {
	Word     string
	Distance float64
}

// runNeighbourQueries fans the queries out over goroutines, bounded by a
// weighted semaphore, and prints the results in query order.
func runNeighbourQueries(words []string, vectors []minkowski.Vector, queries []string, topN, concurrency int) {
	index := make(map[string]int, len(words))
	for i, w := range words {
		index[w] = i
	}

	sem := semaphore.NewWeighted(int64(concurrency))
	results := make([][]neighbour, len(queries))
	var wg sync.WaitGroup
	for qi, query := range queries {
		query = strings.TrimSpace(query)
		queries[qi] = query
		wg.Add(1)
		go func(qi int, query string) {
			defer func() {
				wg.Done()
				sem.Release(1)
			}()
			if err := sem.Acquire(context.Background(), 1); err != nil {
				return
			}
			id, ok := index[query]
			if !ok {
				return
			}
			results[qi] = nearestNeighbours(words, vectors, id, topN)
		}(qi, query)
	}
	wg.Wait()

	for qi, query := range queries {
		if results[qi] == nil {
			fmt.Printf("\nWord %q not found in vocabulary\n", query)
			continue
		}
		fmt.Printf("\nNearest neighbours of %q:\n", query)
		for i, n := range results[qi] {
			fmt.Printf("%d. %s (%.4f)\n", i+1, n.Word, n.Distance)
		}
	}
}

func nearestNeighbours(words []string, vectors []minkowski.Vector, id, topN int) []neighbour {
	neighbours := make([]neighbour, 0, len(words)-1)
	for i := range words {
		if i == id {
			continue
		}
		neighbours = append(neighbours, neighbour{
			Word:     words[i],
			Distance: minkowski.Distance(vectors[id], vectors[i]),
		})
	}
	sort.Slice(neighbours, func(i, j int) bool {
		return neighbours[i].Distance < neighbours[j].Distance
	})
	if len(neighbours) > topN {
		neighbours = neighbours[:topN]
	}
	return neighbours
}
