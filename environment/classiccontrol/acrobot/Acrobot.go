// Package acrobot implements the Acrobot classic control environment
// with continuous actions
package acrobot

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/godagger/environment"
	ts "github.com/samuelfneumann/godagger/timestep"
	"github.com/samuelfneumann/godagger/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// dynamicsType determines whether the dynamics of the environment
// follows those defined in the NeurIPS paper or the RL book.
type dynamicsType bool

const (
	// Dynamics of environment is consistent with RL book
	book dynamicsType = true

	// Dynamics of environment is consistent with NeurIPS paper
	nips dynamicsType = false
)

const (
	dt float64 = 0.2

	// Physical constants
	LinkLength1 float64 = 1.0 // Metres, length of link 1
	LinkLength2 float64 = 1.0 // Metres, length of link 2
	LinkMass1   float64 = 1.0 // Kg, mass of link 1
	LinkMass2   float64 = 1.0 // Kg, mass of link 2
	LinkCOMPos1 float64 = 0.5 // Metres, centre of mass link 1
	LinkCOMPos2 float64 = 0.5 // Metres, centre of mass link 2
	LinkMOI     float64 = 1.0 // Moments of inertia for both links
	MaxVel1     float64 = 4 * math.Pi
	MaxVel2     float64 = 9 * math.Pi
	Gravity     float64 = 9.8
	MaxAngle    float64 = math.Pi
	MinAngle    float64 = -MaxAngle
	MinTorque   float64 = -1.0
	MaxTorque   float64 = 1.0

	ObservationDims     int     = 4
	ActionDims          int     = 1
	MinContinuousAction float64 = MinTorque
	MaxContinuousAction float64 = MaxTorque

	BookOrNips dynamicsType = book
)

// base implements the physics of Acrobot, a double linked pendulum
// attached to a single actuated fixed base.
//
// State feature vectors have the form
//
//	[θ1, θ2, θ̇1, θ̇2], where:
//	θ1 = angle of the first link measured from the negative y-axis
//	θ2 = angle of the second link relative to the first link
//	θ̇1 = angular velocity of the first link
//	θ̇2 = angular velocity of the second link
//
// Angles are wrapped to [-π, π] and angular velocities are clipped to
// [-MaxVel1, MaxVel1] and [-MaxVel2, MaxVel2].
type base struct {
	env.Task
	lastStep        ts.TimeStep
	discount        float64
	angleBounds     r1.Interval
	velocity1Bounds r1.Interval
	velocity2Bounds r1.Interval
}

// validateState returns an error if state is not a legal Acrobot state
func validateState(state *mat.VecDense, angleBounds, vel1Bounds,
	vel2Bounds r1.Interval) error {
	if l := state.Len(); l != ObservationDims {
		return fmt.Errorf("illegal state length \n\twant(%v) \n\thave(%v)",
			ObservationDims, l)
	}

	bounds := []r1.Interval{angleBounds, angleBounds, vel1Bounds, vel2Bounds}
	names := []string{"angle 1", "angle 2", "angular velocity 1",
		"angular velocity 2"}
	for i, b := range bounds {
		if v := state.AtVec(i); v < b.Min || v > b.Max {
			return fmt.Errorf("%v out of bounds: %v ∉ [%v, %v]", names[i], v,
				b.Min, b.Max)
		}
	}
	return nil
}

// newBase returns a new base acrobot environment
func newBase(t env.Task, discount float64) (*base, ts.TimeStep, error) {
	a := &base{
		Task:            t,
		discount:        discount,
		angleBounds:     r1.Interval{Min: MinAngle, Max: MaxAngle},
		velocity1Bounds: r1.Interval{Min: -MaxVel1, Max: MaxVel1},
		velocity2Bounds: r1.Interval{Min: -MaxVel2, Max: MaxVel2},
	}

	firstStep, err := a.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, err
	}
	return a, firstStep, nil
}

// nextState returns the next state of the environment given the
// torque to apply to the fixed base of the acrobot
func (a *base) nextState(torque float64) *mat.VecDense {
	s := a.lastStep.Observation

	torque = floatutils.Clip(torque, MinTorque, MaxTorque)

	// The torque is integrated as a constant fifth state component
	sAugmented := mat.NewVecDense(s.Len()+1, nil)
	sAugmented.SliceVec(0, s.Len()).(*mat.VecDense).CopyVec(s)
	sAugmented.SetVec(sAugmented.Len()-1, torque)

	integrated := rk4(dsDt, sAugmented, []float64{0.0, dt})
	r, _ := integrated.Dims()
	last := integrated.RawRowView(r - 1)

	ns := mat.NewVecDense(ObservationDims, nil)
	ns.SetVec(0, floatutils.Wrap(last[0], a.angleBounds.Min,
		a.angleBounds.Max))
	ns.SetVec(1, floatutils.Wrap(last[1], a.angleBounds.Min,
		a.angleBounds.Max))
	ns.SetVec(2, floatutils.ClipInterval(last[2], a.velocity1Bounds))
	ns.SetVec(3, floatutils.ClipInterval(last[3], a.velocity2Bounds))

	return ns
}

// update moves the environment to newState, computing the reward of
// action as defined by the Task
func (a *base) update(action, newState *mat.VecDense) (ts.TimeStep, bool) {
	reward := a.GetReward(a.lastStep.Observation, action, newState)
	nextStep := ts.New(ts.Mid, reward, a.discount, newState,
		a.lastStep.Number+1)

	a.End(&nextStep)

	a.lastStep = nextStep
	return nextStep, nextStep.Last()
}

// CurrentTimeStep returns the current timestep of the environment
func (a *base) CurrentTimeStep() ts.TimeStep {
	return a.lastStep
}

// MaxSteps returns the step limit of the environment's Task
func (a *base) MaxSteps() int {
	return env.TaskStepLimit(a.Task)
}

// Reset resets the environment, begins a new episode, and returns
// the first timestep of the new episode
func (a *base) Reset() (ts.TimeStep, error) {
	state := a.Start()
	err := validateState(state, a.angleBounds, a.velocity1Bounds,
		a.velocity2Bounds)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}

	a.lastStep = ts.New(ts.First, 0, a.discount, state, 0)
	return a.lastStep, nil
}

// ObservationSpec returns the observation specification of the
// environment
func (a *base) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(ObservationDims, nil)
	lowerBound := mat.NewVecDense(ObservationDims, []float64{MinAngle,
		MinAngle, -MaxVel1, -MaxVel2})
	upperBound := mat.NewVecDense(ObservationDims, []float64{MaxAngle,
		MaxAngle, MaxVel1, MaxVel2})

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (a *base) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{a.discount})

	return env.NewSpec(shape, env.Discount, bound, bound, env.Continuous)
}

// String implements the fmt.Stringer interface
func (a *base) String() string {
	state := a.lastStep.Observation

	return fmt.Sprintf("Acrobot  |  θ1: %v  |  θ2: %v  |  θ̇1: %v  |  θ̇2: %v",
		state.AtVec(0), state.AtVec(1), state.AtVec(2), state.AtVec(3))
}

// dsDt calculates ds/dt for the augmented state [θ1, θ2, θ̇1, θ̇2, τ]
func dsDt(sAugmented *mat.VecDense, t float64) []float64 {
	m1 := LinkMass1
	m2 := LinkMass2
	l1 := LinkLength1
	lc1 := LinkCOMPos1
	lc2 := LinkCOMPos2
	i1 := LinkMOI
	i2 := LinkMOI
	g := Gravity

	a := sAugmented.AtVec(4)
	theta1 := sAugmented.AtVec(0)
	theta2 := sAugmented.AtVec(1)
	dtheta1 := sAugmented.AtVec(2)
	dtheta2 := sAugmented.AtVec(3)

	d1 := m1*lc1*lc1 +
		m2*(l1*l1+lc2*lc2+2*l1*lc2*math.Cos(theta2)) +
		i1 + i2

	d2 := m2*(lc2*lc2+l1*lc2*math.Cos(theta2)) + i2

	phi2 := m2 * lc2 * g * math.Cos(theta1+theta2-math.Pi/2.0)
	phi1 := -m2*l1*lc2*dtheta2*dtheta2*math.Sin(theta2) -
		2*m2*l1*lc2*dtheta2*dtheta1*math.Sin(theta2) +
		(m1*lc1+m2*l1)*g*math.Cos(theta1-math.Pi/2.0) +
		phi2

	var ddtheta2 float64
	if BookOrNips == nips {
		ddtheta2 = (a + d2/d1*phi1 - phi2) / (m2*lc2*lc2 + i2 - d2*d2/d1)
	} else {
		ddtheta2 = (a + d2/d1*phi1 - m2*l1*lc2*dtheta1*dtheta1*
			math.Sin(theta2) - phi2) / (m2*lc2*lc2 + i2 - d2*d2/d1)
	}
	ddtheta1 := -(d2*ddtheta2 + phi1) / d1

	// The torque is constant over the step
	return []float64{dtheta1, dtheta2, ddtheta1, ddtheta2, 0.0}
}

// rk4 integrates a system of ODEs with 4-th order Runge-Kutta,
// returning one row per time in t
func rk4(derivs func(*mat.VecDense, float64) []float64, y0 *mat.VecDense,
	t []float64) *mat.Dense {
	yout := mat.NewDense(len(t), y0.Len(), nil)
	yout.SetRow(0, y0.RawVector().Data)

	for i := 0; i < len(t)-1; i++ {
		h := t[i+1] - t[i]
		y := mat.VecDenseCopyOf(yout.RowView(i))

		k1 := mat.NewVecDense(y.Len(), derivs(y, t[i]))

		input := mat.NewVecDense(y.Len(), nil)
		input.AddScaledVec(y, h/2, k1)
		k2 := mat.NewVecDense(y.Len(), derivs(input, t[i]+h/2))

		input.AddScaledVec(y, h/2, k2)
		k3 := mat.NewVecDense(y.Len(), derivs(input, t[i]+h/2))

		input.AddScaledVec(y, h, k3)
		k4 := mat.NewVecDense(y.Len(), derivs(input, t[i]+h))

		step := mat.VecDenseCopyOf(k1)
		step.AddScaledVec(step, 2.0, k2)
		step.AddScaledVec(step, 2.0, k3)
		step.AddVec(step, k4)
		step.AddScaledVec(y, h/6.0, step)

		yout.SetRow(i+1, step.RawVector().Data)
	}
	return yout
}
