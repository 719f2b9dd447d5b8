package main

import (
	"log"
	"math/rand"
)

// CautiousPolicy decides whether the executing player accepts or rejects
// a drawn card. Rejecting costs steps, so the policy only rejects when the
// downside is bounded: never on collision cards (reject sends the executor
// back to start) and never in the home stretch.
type CautiousPolicy struct {
	rng        *rand.Rand
	rejectRate float64

	// Stats for the current game
	decisions  int
	rejections int
}

// homeStretch is how close to the final tile a player must be before the
// policy stops gambling on rejections.
const homeStretch = 8

func NewCautiousPolicy(seed int64, rejectRate float64) *CautiousPolicy {
	if rejectRate < 0 {
		rejectRate = 0
	}
	if rejectRate > 1 {
		rejectRate = 1
	}
	return &CautiousPolicy{
		rng:        rand.New(rand.NewSource(seed)),
		rejectRate: rejectRate,
	}
}

// Decide returns "accept" or "reject" for the given pending card.
func (p *CautiousPolicy) Decide(state *GameState, event *TaskEvent) string {
	p.decisions++

	executor := state.PlayerByID(event.ExecutorPlayerID)
	if executor == nil {
		return "accept"
	}

	// Collision rejects reset the executor to step 0. Never worth it.
	if event.Type == "collision" {
		return "accept"
	}

	// Leading or nearly finished players have too much to lose.
	remaining := state.FinalStep() - executor.Step
	if remaining <= homeStretch {
		return "accept"
	}

	if p.rng.Float64() < p.rejectRate {
		p.rejections++
		log.Printf("🙅 %s rejects [%s] %s", executor.Name, event.Type, event.Title)
		return "reject"
	}

	return "accept"
}

// Decisions returns how many cards the policy has resolved this game.
func (p *CautiousPolicy) Decisions() int {
	return p.decisions
}

// Rejections returns how many cards the policy rejected this game.
func (p *CautiousPolicy) Rejections() int {
	return p.rejections
}

func (p *CautiousPolicy) Reset() {
	p.decisions = 0
	p.rejections = 0
}
