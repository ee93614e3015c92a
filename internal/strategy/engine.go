package strategy

import (
	"math/rand/v2"
	"sync"
	"time"

	"StockAdvisor/internal/model"
)

// Weights defines the draw probability of each action. This is a placeholder
// scorer, not a fundamentals model: the draw ignores market data entirely.
var Weights = []struct {
	Action model.Action
	Weight float64
}{
	{model.ActionStrongBuy, 0.20},
	{model.ActionBuy, 0.30},
	{model.ActionHold, 0.30},
	{model.ActionSell, 0.15},
	{model.ActionStrongSell, 0.05},
}

// Engine draws verdicts from an injected random source.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewEngine creates an Engine. A zero seed picks a random one.
func NewEngine(seed uint64) *Engine {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return NewEngineWithSource(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15), time.Now)
}

// NewEngineWithSource creates an Engine over an explicit source and clock.
func NewEngineWithSource(src rand.Source, now func() time.Time) *Engine {
	return &Engine{rng: rand.New(src), now: now}
}

// pickAction maps a uniform draw in [0,1) onto the weight table.
func pickAction(u float64) model.Action {
	acc := 0.0
	for _, w := range Weights {
		acc += w.Weight
		if u < acc {
			return w.Action
		}
	}
	return Weights[len(Weights)-1].Action
}

// Draw picks an action and one of its rationales.
func (e *Engine) Draw() (model.Action, string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	action := pickAction(e.rng.Float64())
	reasons := Rationales[action]
	return action, reasons[e.rng.IntN(len(reasons))]
}

// Evaluate computes a fresh verdict for the quote.
func (e *Engine) Evaluate(q model.Quote) model.Verdict {
	action, reason := e.Draw()
	return model.Verdict{
		Action:    action,
		Rationale: reason,
		Fundamentals: model.Fundamentals{
			TrailingPE:   q.PERatio,
			PEGRatio:     q.PEGRatio,
			ProfitMargin: q.ProfitMargin,
			DebtToEquity: q.DebtToEquity,
		},
		GeneratedAt: e.now(),
	}
}
