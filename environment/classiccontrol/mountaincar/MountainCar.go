// Package mountaincar implements the Mountain Car classic control
// environment with continuous actions
package mountaincar

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	env "github.com/samuelfneumann/godagger/environment"
	ts "github.com/samuelfneumann/godagger/timestep"
	"github.com/samuelfneumann/godagger/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	MinPosition float64 = -1.2
	MaxPosition float64 = 0.6
	MaxSpeed    float64 = 0.07
	Power       float64 = 0.0015 // Engine power
	Gravity     float64 = 0.0025

	MinContinuousAction float64 = -1.0
	MaxContinuousAction float64 = 1.0

	ObservationDims int = 2
	ActionDims      int = 1
)

// base tracks the Task and current state of Mountain Car and computes
// the next state given a force on the car.
//
// The state consists of the car's x position and velocity, bounded by
// the constants defined in this package.
type base struct {
	env.Task
	positionBounds r1.Interval
	speedBounds    r1.Interval
	lastStep       ts.TimeStep
	discount       float64
	out            io.Writer
}

// newBase creates a new base environment with the argument task
func newBase(t env.Task, discount float64) (*base, ts.TimeStep, error) {
	m := &base{
		Task:           t,
		positionBounds: r1.Interval{Min: MinPosition, Max: MaxPosition},
		speedBounds:    r1.Interval{Min: -MaxSpeed, Max: MaxSpeed},
		discount:       discount,
		out:            os.Stdout,
	}

	firstStep, err := m.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, err
	}
	return m, firstStep, nil
}

// ObservationSpec returns the observation specification of the
// environment
func (m *base) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(ObservationDims, nil)
	lowerBound := mat.NewVecDense(ObservationDims, []float64{
		m.positionBounds.Min,
		m.speedBounds.Min,
	})
	upperBound := mat.NewVecDense(ObservationDims, []float64{
		m.positionBounds.Max,
		m.speedBounds.Max,
	})

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (m *base) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{m.discount})

	return env.NewSpec(shape, env.Discount, bound, bound, env.Continuous)
}

// CurrentTimeStep returns the last TimeStep that occurred in the
// environment
func (m *base) CurrentTimeStep() ts.TimeStep {
	return m.lastStep
}

// MaxSteps returns the step limit of the environment's Task
func (m *base) MaxSteps() int {
	return env.TaskStepLimit(m.Task)
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (m *base) Reset() (ts.TimeStep, error) {
	state := m.Start()
	if err := validateState(state, m.positionBounds,
		m.speedBounds); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}

	m.lastStep = ts.New(ts.First, 0, m.discount, state, 0)
	return m.lastStep, nil
}

// nextState calculates the next state in the environment given a force
// to apply to the car
func (m *base) nextState(force float64) *mat.VecDense {
	state := m.lastStep.Observation
	position, velocity := state.AtVec(0), state.AtVec(1)

	velocity += force*Power - Gravity*math.Cos(3*position)
	velocity = floatutils.ClipInterval(velocity, m.speedBounds)

	position += velocity
	position = floatutils.ClipInterval(position, m.positionBounds)

	// The car stops at the left wall
	if position <= m.positionBounds.Min && velocity < 0 {
		velocity = 0
	}

	return mat.NewVecDense(ObservationDims, []float64{position, velocity})
}

// update moves the environment to newState, computing the reward of
// action as defined by the Task. It returns the next TimeStep and
// whether it is the last in the episode.
func (m *base) update(action mat.Vector, newState *mat.VecDense) (
	ts.TimeStep, bool) {
	reward := m.GetReward(m.lastStep.Observation, action, newState)
	nextStep := ts.New(ts.Mid, reward, m.discount, newState,
		m.lastStep.Number+1)

	m.End(&nextStep)

	m.lastStep = nextStep
	return nextStep, nextStep.Last()
}

// SetOutput sets the writer that Render draws to
func (m *base) SetOutput(w io.Writer) {
	m.out = w
}

// Render draws a text-based version of the environment: the hill, and
// below it the position of the car between the two walls
func (m *base) Render() error {
	const xIndices = 16

	var b strings.Builder
	for i := 1; i <= xIndices/2; i++ {
		b.WriteString(row(xIndices, i))
		if i == 1 {
			b.WriteString("🏁")
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	xPos := m.lastStep.Observation.AtVec(0)
	xPos = (xPos - m.positionBounds.Min) /
		(m.positionBounds.Max - m.positionBounds.Min)
	x := int(xPos * float64(xIndices-1))

	for i := 0; i < xIndices; i++ {
		switch {
		case i == x:
			b.WriteString("🚗")
		case i == xIndices-1:
			b.WriteString("🏁")
		default:
			b.WriteByte('=')
		}
	}
	b.WriteByte('\n')

	_, err := io.WriteString(m.out, b.String())
	return err
}

// String returns a string representation of the environment
func (m *base) String() string {
	str := "Mountain Car  |  Position: %v  |  Speed: %v"
	state := m.lastStep.Observation
	return fmt.Sprintf(str, state.AtVec(0), state.AtVec(1))
}

// row returns a single row of the text-based rendering of the hill
func row(xIndices, width int) string {
	return strings.Repeat("=", width) +
		strings.Repeat(" ", xIndices-2*width) +
		strings.Repeat("=", width)
}

// validateState returns an error if the position or speed are outside
// the environmental limits
func validateState(s mat.Vector, positionBounds,
	speedBounds r1.Interval) error {
	if s.Len() != ObservationDims {
		return fmt.Errorf("state should be %v-dimensional but got %v",
			ObservationDims, s.Len())
	}

	position := s.AtVec(0)
	if position < positionBounds.Min || position > positionBounds.Max {
		return fmt.Errorf("illegal position %v ∉ [%v, %v]", position,
			positionBounds.Min, positionBounds.Max)
	}

	speed := s.AtVec(1)
	if speed < speedBounds.Min || speed > speedBounds.Max {
		return fmt.Errorf("illegal speed %v ∉ [%v, %v]", speed,
			speedBounds.Min, speedBounds.Max)
	}
	return nil
}
