package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent simulations side by side, one goroutine each.
// Every member still advances on its own single timeline.
type Ensemble struct {
	members []*Simulation
}

func NewEnsemble(members ...*Simulation) *Ensemble {
	return &Ensemble{members: members}
}

func (e *Ensemble) Run(ctx context.Context, opts RunOptions) ([]*Result, error) {
	results := make([]*Result, len(e.members))
	errs := make([]error, len(e.members))

	var wg sync.WaitGroup
	for i, s := range e.members {
		wg.Add(1)
		go func(idx int, s *Simulation) {
			defer wg.Done()
			results[idx], errs[idx] = s.Run(ctx, opts)
		}(i, s)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
