// Package pendulum implements the pendulum classic control environment
package pendulum

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/samuelfneumann/godagger/environment"
	"github.com/samuelfneumann/godagger/timestep"
	"github.com/samuelfneumann/godagger/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// default physical constants
const (
	AngleBound  float64 = math.Pi // +/- Angle bounds
	SpeedBound  float64 = 8.0     // +/- Speed bounds
	TorqueBound float64 = 2.0     // +/- Torque bounds

	MaxContinuousAction float64 = TorqueBound
	MinContinuousAction float64 = -MaxContinuousAction

	dt              float64 = 0.05
	Gravity         float64 = 9.8
	Mass            float64 = 1.0
	Length          float64 = 1.0
	ActionDims      int     = 1
	ObservationDims int     = 2
)

// base implements the physics of the Pendulum environment, a pendulum
// attached to a fixed base which can be swung by applying torque at
// the base
type base struct {
	environment.Task
	angleBounds  r1.Interval
	speedBounds  r1.Interval
	torqueBounds r1.Interval
	lastStep     timestep.TimeStep
	discount     float64
	out          io.Writer
}

// newBase creates and returns a new base environment
func newBase(t environment.Task, d float64) (*base, timestep.TimeStep,
	error) {
	p := &base{
		Task:         t,
		angleBounds:  r1.Interval{Min: -AngleBound, Max: AngleBound},
		speedBounds:  r1.Interval{Min: -SpeedBound, Max: SpeedBound},
		torqueBounds: r1.Interval{Min: -TorqueBound, Max: TorqueBound},
		discount:     d,
		out:          os.Stdout,
	}

	firstStep, err := p.Reset()
	if err != nil {
		return nil, timestep.TimeStep{}, err
	}
	return p, firstStep, nil
}

// CurrentTimeStep returns the last TimeStep that occurred in the
// environment
func (p *base) CurrentTimeStep() timestep.TimeStep {
	return p.lastStep
}

// Reset resets the environment and returns a starting state drawn from the
// Starter
func (p *base) Reset() (timestep.TimeStep, error) {
	state := p.Start()
	if err := validateState(state, p.angleBounds, p.speedBounds); err != nil {
		return timestep.TimeStep{}, fmt.Errorf("reset: %v", err)
	}

	p.lastStep = timestep.New(timestep.First, 0, p.discount, state, 0)
	return p.lastStep, nil
}

// MaxSteps returns the step limit of the environment's Task
func (p *base) MaxSteps() int {
	return environment.TaskStepLimit(p.Task)
}

// nextState computes the next state of the environment given an amount
// of torque to apply to the fixed base of the pendulum. The torque is
// first clipped to the appropriate torque bounds.
func (p *base) nextState(torque float64) *mat.VecDense {
	obs := p.lastStep.Observation
	th, thdot := obs.AtVec(0), obs.AtVec(1)

	torque = floatutils.ClipInterval(torque, p.torqueBounds)

	newthdot := thdot + (-3*Gravity/(2*Length)*math.Sin(th+math.Pi)+
		3.0/(Mass*Length*Length)*torque)*dt
	newthdot = floatutils.ClipInterval(newthdot, p.speedBounds)

	newth := th + newthdot*dt
	newth = floatutils.Wrap(newth, p.angleBounds.Min, p.angleBounds.Max)

	return mat.NewVecDense(ObservationDims, []float64{newth, newthdot})
}

func (p *base) update(action mat.Vector, newState *mat.VecDense) (
	timestep.TimeStep, bool, error) {
	reward := p.GetReward(p.lastStep.Observation, action, newState)
	nextStep := timestep.New(timestep.Mid, reward, p.discount, newState,
		p.lastStep.Number+1)

	// Check if the step is the last in the episode and adjust step type
	// if necessary
	p.End(&nextStep)

	p.lastStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// DiscountSpec returns the discount specification of the environment
func (p *base) DiscountSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{p.discount})
	upperBound := mat.NewVecDense(1, []float64{p.discount})

	return environment.NewSpec(shape, environment.Discount, lowerBound,
		upperBound, environment.Continuous)
}

// ObservationSpec returns the observation specification of the environment
func (p *base) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(ObservationDims, nil)

	minObs := []float64{p.angleBounds.Min, p.speedBounds.Min}
	lowerBound := mat.NewVecDense(ObservationDims, minObs)

	maxObs := []float64{p.angleBounds.Max, p.speedBounds.Max}
	upperBound := mat.NewVecDense(ObservationDims, maxObs)

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Continuous)
}

// String converts the environment to a string representation
func (p *base) String() string {
	str := "Pendulum  |  theta: %v  |  theta dot: %v"
	theta := p.lastStep.Observation.AtVec(0)
	thetadot := p.lastStep.Observation.AtVec(1)

	return fmt.Sprintf(str, theta, thetadot)
}

// SetOutput sets where frames are rendered to
func (p *base) SetOutput(w io.Writer) {
	p.out = w
}

// Render renders the current timestep to the terminal
func (p *base) Render() error {
	_, err := fmt.Fprintf(p.out, "\x1b[3;J\x1b[H\x1b[2J\n\n%s\n\n",
		frame(p.lastStep.Observation.AtVec(0)))
	return err
}

// frame returns a drawing of the pendulum at angle th, measured
// clockwise from the positive y-axis
func frame(th float64) string {
	// Index the eight compass directions, 0 pointing up
	octant := int(math.Floor((th+math.Pi/8)/(math.Pi/4))) % 8
	if octant < 0 {
		octant += 8
	}

	frames := []string{
		"  | \n  .",
		"   / \n  .",
		"  .--\n",
		"  . \n   \\",
		"  . \n  |",
		"  . \n /",
		"--.\n",
		"\\ \n  .",
	}
	return frames[octant]
}

// validateState validates the state to ensure that the angle and angular
// velocity are within the environmental limits
func validateState(obs mat.Vector, angleBounds, speedBounds r1.Interval) error {
	if obs.Len() != ObservationDims {
		return fmt.Errorf("state should have %v features but has %v",
			ObservationDims, obs.Len())
	}

	if obs.AtVec(0) > angleBounds.Max || obs.AtVec(0) < angleBounds.Min {
		return fmt.Errorf("theta is not within bounds %v", angleBounds)
	}

	if obs.AtVec(1) > speedBounds.Max || obs.AtVec(1) < speedBounds.Min {
		return fmt.Errorf("theta dot is not within bounds %v", speedBounds)
	}
	return nil
}
