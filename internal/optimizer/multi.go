package optimizer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"stocksim/internal/engine"
	"stocksim/types"
)

// RunStrategies walks every rule set through the same windows concurrently
// and returns results keyed by strategy name. A strategy whose optimization
// fails is logged and left out of the map.
func RunStrategies(ctx context.Context, provider engine.PriceProvider, rules []engine.RuleSet,
	engineCfg engine.Config, cfg Config, logger zerolog.Logger,
	symbols []string, start, end time.Time) map[string]*types.WFOResult {

	// Progress bars from concurrent optimizers would interleave on one
	// terminal.
	cfg.ShowProgress = false

	var mu sync.Mutex
	results := make(map[string]*types.WFOResult, len(rules))

	var wg sync.WaitGroup
	for _, rs := range rules {
		wg.Add(1)
		go func(rs engine.RuleSet) {
			defer wg.Done()
			opt := New(provider, rs, engineCfg, cfg, logger)
			result, err := opt.Run(ctx, symbols, start, end)
			if err != nil {
				logger.Error().Err(err).Str("strategy", rs.Name()).Msg("optimization failed")
				return
			}
			mu.Lock()
			results[rs.Name()] = result
			mu.Unlock()
		}(rs)
	}
	wg.Wait()

	return results
}
