package analysis

import (
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const defaultBatchConcurrency = 4

// RunBatch post-processes many completions with at most concurrency
// goroutines. Outcomes keep the order of inputs.
func (p *Pipeline) RunBatch(inputs []Input, concurrency int) []*Outcome {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}

	outcomes := make([]*Outcome, len(inputs))
	workers := pool.New().WithMaxGoroutines(concurrency)
	for idx, in := range inputs {
		workers.Go(func() {
			outcomes[idx] = p.Run(in)
		})
	}
	workers.Wait()

	fellBack := 0
	for _, out := range outcomes {
		if out.FellBack {
			fellBack++
		}
	}
	p.logger.Info("batch post-processing finished",
		zap.Int("completions", len(inputs)),
		zap.Int("fell_back", fellBack),
		zap.Int("concurrency", concurrency),
	)

	return outcomes
}
