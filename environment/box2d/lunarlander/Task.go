package lunarlander

import (
	"math"

	"github.com/samuelfneumann/godagger/environment"
	"github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/mat"
)

// lunarLanderTask is a Task which needs access to the physics of the
// lunar lander to compute rewards and episode ends
type lunarLanderTask interface {
	environment.Task
	registerEnv(*lunarLander)
	reset()
}

// Land is the task of landing the lunar lander on the landing pad.
// Episodes end when the hull touches the moon, when the lander leaves
// the viewport horizontally, when the lander comes to rest, or after a
// number of steps.
//
// Rewards are shaped by the distance to the landing pad, the speed and
// tilt of the lander, and the ground contact of each leg. Firing the
// main engine costs 0.3 and a side engine 0.03 per step. Crashing
// gives a reward of -100 and coming to rest a reward of +100.
type Land struct {
	environment.Starter
	stepLimit *environment.StepLimit
	outside   *environment.FunctionEnder

	prevShaping *float64

	env *lunarLander
}

// NewLand returns a new Land task which cuts off episodes after
// episodeSteps steps
func NewLand(s environment.Starter, episodeSteps int) *Land {
	outside := environment.NewFunctionEnder(func(obs *mat.VecDense) bool {
		return math.Abs(obs.AtVec(0)) >= 1.0
	})

	return &Land{
		Starter:   s,
		stepLimit: environment.NewStepLimit(episodeSteps),
		outside:   outside,
	}
}

func (l *Land) registerEnv(env *lunarLander) {
	l.env = env
}

func (l *Land) reset() {
	l.prevShaping = nil
}

// MaxSteps returns the number of steps after which episodes are cut off
func (l *Land) MaxSteps() int {
	return l.stepLimit.MaxSteps()
}

// End determines whether the episode should end, and if so sets the
// StepType of t to timestep.Last
func (l *Land) End(t *timestep.TimeStep) bool {
	if l.env != nil && (l.env.IsGameOver() || !l.env.IsAwake()) {
		t.StepType = timestep.Last
		return true
	}
	if l.outside.End(t) {
		return true
	}
	return l.stepLimit.End(t)
}

// AtGoal returns whether both legs of the lander touch the ground
func (l *Land) AtGoal(state mat.Matrix) bool {
	leg1Contact, leg2Contact := l.env.GroundContact()
	return leg1Contact && leg2Contact
}

// GetReward returns the reward for the transition into nextState
func (l *Land) GetReward(s, a, nextState mat.Vector) float64 {
	state := make([]float64, nextState.Len())
	for i := range state {
		state[i] = nextState.AtVec(i)
	}

	reward := 0.0
	shaping := (-100 * math.Sqrt(state[0]*state[0]+state[1]*state[1])) +
		(-100 * math.Sqrt(state[2]*state[2]+state[3]*state[3])) +
		(-100 * math.Abs(state[4])) +
		(10 * state[6]) +
		(10 * state[7])

	if l.prevShaping != nil {
		reward = shaping - *l.prevShaping
	}
	l.prevShaping = &shaping

	// Less fuel spent is better
	reward -= l.env.MPower() * 0.30
	reward -= l.env.SPower() * 0.03

	if l.env.IsGameOver() || math.Abs(state[0]) >= 1.0 {
		reward = -100
	} else if !l.env.IsAwake() {
		reward = 100
	}
	return reward
}
