package minkowski

import (
	"fmt"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// How many lines to process between progress reports.
const reportingInterval = 50

// Minkowski coordinates the training of hyperbolic word embeddings: it owns
// the dictionary, the shared vector table, the per-vector lock table and
// the negative-sampling table, and drives the epoch workers.
type Minkowski struct {
	args *Args
	dict *Dictionary

	vectors     []Vector
	vectorFlags []sync.Mutex

	negatives         *NegativeTable
	negativeTableSize int
	burnin            atomic.Bool
}

// New returns a trainer for the given configuration.
func New(args *Args) *Minkowski {
	return &Minkowski{args: args, negativeTableSize: NegativeTableSize}
}

// Dictionary returns the vocabulary in use, or nil before Train.
func (m *Minkowski) Dictionary() *Dictionary {
	return m.dict
}

// Vectors returns the embedding table.  It must not be accessed while
// training is in progress.
func (m *Minkowski) Vectors() []Vector {
	return m.vectors
}

// Train builds the vocabulary and the negative table, initializes the
// embeddings near the basepoint, runs the burn-in epochs and then the main
// epochs, checkpointing as configured.  The final vectors are left in the
// embedding table; writing them out is up to the caller.
func (m *Minkowski) Train() error {
	r, err := OpenCorpus(m.args.Input)
	if err != nil {
		return err
	}
	m.dict = NewDictionary(m.args)
	if err := m.dict.DetermineVocabulary(r); err != nil {
		r.Close()
		return err
	}
	r.Close()

	m.negatives = NewNegativeTable(m.dict.Counts(), m.args.DistributionPower, m.negativeTableSize)

	rng := rand.New(rand.NewSource(int64(m.args.Seed)))
	m.vectors = make([]Vector, m.dict.NWords())
	for i := range m.vectors {
		m.vectors[i] = NewVector(m.args.Dimension)
		RandomHyperboloidPoint(m.vectors[i], rng, m.args.InitStdDev)
	}
	m.vectorFlags = make([]sync.Mutex, len(m.vectors))

	m.burnin.Store(true)
	if err := m.trainEpochs(m.args.BurninEpochs, m.args.Seed, m.args.BurninLR, m.args.BurninLR, false); err != nil {
		return err
	}
	m.burnin.Store(false)
	// use a different seed so the main phase draws different negative samples
	return m.trainEpochs(m.args.Epochs, -m.args.Seed, m.args.StartLR, m.args.EndLR, true)
}

func (m *Minkowski) trainEpochs(numEpochs, seed int, startLR, endLR float64, checkpoint bool) error {
	lrDeltaPerEpoch := (startLR - endLR) / float64(numEpochs)
	for epoch := 0; epoch < numEpochs; epoch++ {
		if checkpoint && m.args.CheckpointInterval > 0 && epoch%m.args.CheckpointInterval == 0 {
			if err := m.saveCheckpoint(epoch); err != nil {
				return err
			}
		}
		logger.Infof("Epoch: %d / %d", epoch+1, numEpochs)
		epochStartLR := startLR - float64(epoch)*lrDeltaPerEpoch
		epochEndLR := startLR - float64(epoch+1)*lrDeltaPerEpoch
		var wg sync.WaitGroup
		for threadID := 0; threadID < m.args.Threads; threadID++ {
			threadSeed := seed + epoch*m.args.Threads + threadID
			wg.Add(1)
			go func(threadID, threadSeed int) {
				defer wg.Done()
				m.epochThread(threadID, threadSeed, epochStartLR, epochEndLR)
			}(threadID, threadSeed)
		}
		wg.Wait()
	}
	if checkpoint && m.args.CheckpointInterval > 0 {
		return m.saveCheckpoint(numEpochs)
	}
	return nil
}

// epochThread processes one worker's shard of the corpus for one epoch: it
// seeks to the shard start, pulls sub-sampled lines and runs the skip-gram
// sweep until its token budget is exhausted.  Only thread 0 reports
// progress.
func (m *Minkowski) epochThread(threadID, seed int, startLR, endLR float64) {
	rng := rand.New(rand.NewSource(int64(seed)))
	r, err := OpenCorpus(m.args.Input)
	if err != nil {
		logger.Fatalf("worker %d: %v", threadID, err)
	}
	defer r.Close()
	size, err := r.Size()
	if err != nil {
		logger.Fatalf("worker %d: %v", threadID, err)
	}
	if err := r.Seek(int64(threadID) * size / int64(m.args.Threads)); err != nil {
		logger.Fatalf("worker %d: %v", threadID, err)
	}
	model := NewModel(m.vectors, m.args)

	// number of tokens that this worker should process
	maxTokens := m.dict.NTokens() / int64(m.args.Threads)
	var tokenCount, iterCount int64
	var line []int32
	start := time.Now()
	lr := startLR
	progress := 0.0
	for tokenCount < maxTokens {
		var consumed int32
		line, consumed = m.dict.GetLine(r, line, rng)
		tokenCount += int64(consumed)
		progress = float64(tokenCount) / float64(maxTokens)
		if progress > 1 {
			progress = 1
		}
		lr = startLR*(1-progress) + endLR*progress
		m.skipgram(model, lr, line, rng)
		if threadID == 0 && iterCount%reportingInterval == 0 {
			m.printInfo(start, progress, tokenCount, lr, model.GetPerformance())
		}
		iterCount++
	}
	if threadID == 0 {
		m.printInfo(start, progress, tokenCount, lr, model.GetPerformance())
		fmt.Fprintln(os.Stderr)
	}
}

// skipgram runs the windowed sweep over one line of word ids, invoking the
// model for every (source, context) pair whose locks could be obtained.
func (m *Minkowski) skipgram(model *Model, lr float64, line []int32, rng *rand.Rand) {
	var samples []int32
	numNegatives := m.args.NumberNegatives
	if m.burnin.Load() {
		numNegatives /= 10 // as per N&K
	}
	for w := 0; w < len(line); w++ {
		for c := -m.args.WindowSize; c <= m.args.WindowSize; c++ {
			if c == 0 || w+c < 0 || w+c >= len(line) {
				continue
			}
			source := line[w]
			target := line[w+c]
			var ok bool
			samples, ok = m.obtainVectors(source, target, samples, numNegatives, rng)
			if !ok {
				// couldn't obtain one of the necessary locks, so skip!
				continue
			}
			model.LogBilinearNegativeSampling(source, samples, lr)
			m.releaseVectors(source, samples)
		}
	}
}

// obtainVectors locks the source and target; if that fails, it returns
// false with every lock released.  Otherwise it locks numNegatives distinct
// negative samples, returning samples populated with the target followed by
// the negatives.  Negatives are guaranteed distinct because a held lock
// cannot be reacquired.  All attempts are non-blocking, so no acquisition
// order is needed to avoid deadlock.
func (m *Minkowski) obtainVectors(source, target int32, samples []int32, numNegatives int, rng *rand.Rand) ([]int32, bool) {
	if !m.vectorFlags[source].TryLock() {
		return samples, false
	}
	if !m.vectorFlags[target].TryLock() {
		m.vectorFlags[source].Unlock()
		return samples, false
	}
	samples = samples[:0]
	samples = append(samples, target)
	for len(samples) < numNegatives+1 {
		nextNegative := m.getNegativeSample(target, rng)
		if m.vectorFlags[nextNegative].TryLock() {
			samples = append(samples, nextNegative)
		}
	}
	return samples, true
}

// getNegativeSample draws a word id from the negative table, rejecting any
// draw equal to target.
func (m *Minkowski) getNegativeSample(target int32, rng *rand.Rand) int32 {
	for {
		negative := m.negatives.Sample(rng)
		if negative != target {
			return negative
		}
	}
}

// releaseVectors unlocks every sample and then the source.
func (m *Minkowski) releaseVectors(source int32, samples []int32) {
	for _, s := range samples {
		m.vectorFlags[s].Unlock()
	}
	m.vectorFlags[source].Unlock()
}

func (m *Minkowski) printInfo(start time.Time, progress float64, tokensProcessed int64, lr, performance float64) {
	elapsed := time.Since(start).Seconds()
	wst := 0.0
	if elapsed > 0 {
		// the workers run in parallel, so the wall time of thread 0
		// approximates per-thread CPU time
		wst = float64(tokensProcessed) / elapsed
	}
	fmt.Fprintf(os.Stderr, "\rProgress: %5.1f%%  words/sec/thread: %8.0f  lr: %8.6f  objective: %8.6f",
		100*progress, wst, lr, performance)
}

// saveCheckpoint writes the embedding table after the given number of main
// epochs.  The epoch number is zero-padded so that checkpoint files sort
// lexicographically.
func (m *Minkowski) saveCheckpoint(epochsTrained int) error {
	return m.SaveVectors(fmt.Sprintf("%s-after-%06d-epochs", m.args.Output, epochsTrained))
}
