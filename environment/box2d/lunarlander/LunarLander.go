// Package lunarlander provides an implementation of the Lunar Lander
// environment.
package lunarlander

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/ByteArena/box2d"
	"github.com/fogleman/gg"
	"github.com/samuelfneumann/godagger/environment"
	"github.com/samuelfneumann/godagger/timestep"
	"github.com/samuelfneumann/godagger/utils/floatutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	FPS float64 = 50

	// speed of game, adjusts forces as well
	Scale float64 = 30.0

	XGravity float64 = 0.0
	YGravity float64 = -10.0

	MainEnginePower float64 = 13.0
	SideEnginePower float64 = 0.6

	LegAway         float64 = 20.0
	LegDown         float64 = 18.0
	LegW            float64 = 2.0
	LegH            float64 = 8.0
	LegSpringTorque float64 = 40.0

	SideEngineHeight float64 = 14.0
	SideEngineAway   float64 = 12.0

	Chunks int = 11

	ViewportW float64 = 600
	ViewportH float64 = 400

	// Action
	MaxContinuousAction float64 = 1.0
	MinContinuousAction float64 = -MaxContinuousAction
	ActionDims          int     = 2

	// State observations
	StateObservations int     = 8
	MinAngle          float64 = -math.Pi
	MaxAngle          float64 = math.Pi
	// Box2D limits on velocity: 2.0 units per timestep
	MaxVelocity float64 = 2.0 / (1.0 / FPS) // In Box2D units
	MinVelocity float64 = -MaxVelocity      // in Box2D units

	// Default starting values
	InitialX      float64 = (ViewportW / Scale / 2)
	InitialY      float64 = ((ViewportH - ViewportH/25) / Scale)
	InitialRandom float64 = 1000.0 // Set 1500 to make game harder
)

// LanderPoly holds the vertices of the lander's hull in pixels
var LanderPoly [][]float64 = [][]float64{
	{-14, 17},
	{-17, 0},
	{-17, -10},
	{17, -10},
	{17, 0},
	{14, 17},
}

// DefaultStarter returns the Starter which starts the lander at the
// top centre of the viewport with the default random initial force
func DefaultStarter(seed uint64) environment.Starter {
	return environment.NewUniformStarter([]r1.Interval{
		{Min: InitialX, Max: InitialX},
		{Min: InitialY, Max: InitialY},
		{Min: InitialRandom, Max: InitialRandom},
	}, seed)
}

// WorldToPixelCoord converts Box2D world coordinates to pixel
// coordinates of the rendered viewport
func WorldToPixelCoord(coords [2]float64) [2]float64 {
	x, y := coords[0], coords[1]

	pixelX := Scale * x
	pixelY := ViewportH - Scale*y

	return [2]float64{pixelX, pixelY}
}

type contactDetector struct {
	env *lunarLander
}

func newContactDetector(e *lunarLander) *contactDetector {
	return &contactDetector{e}
}

func (c *contactDetector) touches(body *box2d.B2Body,
	contact box2d.B2ContactInterface) bool {
	return body == contact.GetFixtureA().GetBody() ||
		body == contact.GetFixtureB().GetBody()
}

func (c *contactDetector) BeginContact(contact box2d.B2ContactInterface) {
	// If the body touches the ground, it's game over. The ship should
	// be landed gently.
	if c.touches(c.env.lander, contact) {
		c.env.gameOver = true
	}

	if c.touches(c.env.legs[0], contact) {
		c.env.leg1GroundContact = true
	}
	if c.touches(c.env.legs[1], contact) {
		c.env.leg2GroundContact = true
	}
}

func (c *contactDetector) EndContact(contact box2d.B2ContactInterface) {
	if c.touches(c.env.legs[0], contact) {
		c.env.leg1GroundContact = false
	}
	if c.touches(c.env.legs[1], contact) {
		c.env.leg2GroundContact = false
	}
}

func (c *contactDetector) PreSolve(contact box2d.B2ContactInterface,
	oldManifold box2d.B2Manifold) {
}

func (c *contactDetector) PostSolve(contact box2d.B2ContactInterface,
	impulse *box2d.B2ContactImpulse) {
}

// lunarLander implements the physics and rendering of the lunar lander
// environment with continuous actions
type lunarLander struct {
	environment.Task

	world box2d.B2World

	boundary       []*box2d.B2Body
	boundaryColour color.Color
	xBounds        r1.Interval
	yBounds        r1.Interval

	moon         *box2d.B2Body
	moonVertices [][2]float64
	moonShade    color.Color

	skyShade color.Color

	lander       *box2d.B2Body
	landerColour color.Color

	legs              []*box2d.B2Body
	leg1GroundContact bool
	leg2GroundContact bool
	legColour         color.Color

	helipadX1 float64
	helipadX2 float64
	helipadY  float64

	gameOver bool
	rng      distuv.Uniform

	actionBounds   r1.Interval
	angleBounds    r1.Interval
	velocityBounds r1.Interval

	discount float64
	prevStep timestep.TimeStep
	mPower   float64
	sPower   float64

	frameDir string
	frame    int
}

// SPower returns the power of the side engines on the last step
func (l *lunarLander) SPower() float64 {
	return l.sPower
}

// MPower returns the power of the main engine on the last step
func (l *lunarLander) MPower() float64 {
	return l.mPower
}

// IsAwake returns whether the lander is still moving
func (l *lunarLander) IsAwake() bool {
	return l.lander.IsAwake()
}

// GroundContact returns whether each leg touches the ground
func (l *lunarLander) GroundContact() (bool, bool) {
	return l.leg1GroundContact, l.leg2GroundContact
}

// IsGameOver returns whether the lander's hull has hit the ground
func (l *lunarLander) IsGameOver() bool {
	return l.gameOver
}

// SetFrameDir sets the directory that Render saves frames to
func (l *lunarLander) SetFrameDir(dir string) {
	l.frameDir = dir
	l.frame = 0
}

// Render draws the current state of the environment and saves it as
// the next PNG frame in the frame directory
func (l *lunarLander) Render() error {
	dc := gg.NewContext(int(ViewportW), int(ViewportH))
	dc.SetColor(l.moonShade)
	dc.Clear()

	// Sky, everything above the moon's surface
	dc.ClearPath()
	startCoords := WorldToPixelCoord([2]float64{l.moonVertices[0][0],
		ViewportH / Scale})
	dc.MoveTo(startCoords[0], startCoords[1])
	for _, v := range l.moonVertices {
		coords := WorldToPixelCoord(v)
		dc.LineTo(coords[0], coords[1])
	}
	last := len(l.moonVertices) - 1
	endCoords := WorldToPixelCoord([2]float64{l.moonVertices[last][0],
		ViewportH / Scale})
	dc.LineTo(endCoords[0], endCoords[1])
	dc.LineTo(startCoords[0], startCoords[1])
	dc.SetColor(l.skyShade)
	dc.Fill()

	// Helipad
	dc.SetColor(l.boundaryColour)
	for _, x := range []float64{l.helipadX1, l.helipadX2} {
		base := WorldToPixelCoord([2]float64{x, l.helipadY})
		top := WorldToPixelCoord([2]float64{x, l.helipadY + 50/Scale})
		dc.DrawLine(base[0], base[1], top[0], top[1])
	}
	dc.SetLineWidth(2.0)
	dc.Stroke()

	// Bounds
	dc.ClearPath()
	dc.SetColor(l.boundaryColour)
	dc.SetLineWidth(5.0)
	for i := range l.boundary {
		fix := l.boundary[i].GetFixtureList()
		sh := fix.M_shape.(*box2d.B2EdgeShape)

		pixelCoords1 := WorldToPixelCoord([2]float64{sh.M_vertex1.X,
			sh.M_vertex1.Y})
		pixelCoords2 := WorldToPixelCoord([2]float64{sh.M_vertex2.X,
			sh.M_vertex2.Y})

		dc.DrawLine(pixelCoords1[0], pixelCoords1[1], pixelCoords2[0],
			pixelCoords2[1])
	}
	dc.Stroke()

	drawBody(dc, l.lander, l.landerColour)
	for _, leg := range l.legs {
		drawBody(dc, leg, l.legColour)
	}

	if err := os.MkdirAll(l.frameDir, 0755); err != nil {
		return fmt.Errorf("render: %v", err)
	}
	filename := filepath.Join(l.frameDir, fmt.Sprintf("frame%05d.png",
		l.frame))
	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("render: %v", err)
	}
	l.frame++
	return nil
}

// drawBody fills the polygons of all fixtures of body
func drawBody(dc *gg.Context, body *box2d.B2Body, c color.Color) {
	for fix := body.GetFixtureList(); fix != nil; fix = fix.M_next {
		shape := fix.M_shape.(*box2d.B2PolygonShape)

		dc.ClearPath()
		for i := 0; i < shape.M_count; i++ {
			vertex := box2d.B2TransformVec2Mul(body.M_xf, shape.M_vertices[i])
			coords := WorldToPixelCoord([2]float64{vertex.X, vertex.Y})
			dc.LineTo(coords[0], coords[1])
		}
		dc.ClosePath()

		dc.SetColor(c)
		dc.Fill()
	}
}

func newLunarLander(task environment.Task, discount float64,
	seed uint64) (*lunarLander, timestep.TimeStep, error) {
	l := &lunarLander{}
	l.world = box2d.MakeB2World(box2d.B2Vec2{X: XGravity, Y: YGravity})
	l.boundaryColour = color.RGBA{R: 255, G: 166, B: 0, A: 255}
	l.moonShade = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	l.skyShade = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	l.landerColour = color.RGBA{R: 128, G: 102, B: 230, A: 255}
	l.legColour = color.RGBA{R: 77, G: 77, B: 128, A: 255}

	l.rng = distuv.Uniform{Min: 0, Max: 1.0, Src: rand.NewSource(seed)}
	l.discount = discount
	l.frameDir = "lunarlander"

	l.actionBounds = r1.Interval{
		Min: MinContinuousAction,
		Max: MaxContinuousAction,
	}
	l.angleBounds = r1.Interval{Min: MinAngle, Max: MaxAngle}
	l.velocityBounds = r1.Interval{Min: MinVelocity, Max: MaxVelocity}
	l.yBounds = r1.Interval{Min: ViewportH / Scale / 2, Max: InitialY}
	l.xBounds = r1.Interval{
		Min: 0.05 * ViewportW / Scale,
		Max: 0.95 * ViewportW / Scale,
	}

	if t, ok := task.(lunarLanderTask); ok {
		t.registerEnv(l)
	}
	l.Task = task

	step, err := l.Reset()
	if err != nil {
		return nil, timestep.TimeStep{}, err
	}
	return l, step, nil
}

// destroy removes all bodies from the world
func (l *lunarLander) destroy() {
	if l.moon == nil {
		return
	}
	l.world.SetContactListener(nil)

	l.world.DestroyBody(l.moon)
	l.moon = nil

	l.world.DestroyBody(l.lander)
	l.lander = nil

	for _, leg := range l.legs {
		l.world.DestroyBody(leg)
	}
	for _, b := range l.boundary {
		l.world.DestroyBody(b)
	}
}

// Close releases the bodies of the Box2D world
func (l *lunarLander) Close() error {
	l.destroy()
	return nil
}

// CurrentTimeStep returns the last TimeStep that occurred in the
// environment
func (l *lunarLander) CurrentTimeStep() timestep.TimeStep {
	return l.prevStep
}

// MaxSteps returns the step limit of the environment's Task
func (l *lunarLander) MaxSteps() int {
	return environment.TaskStepLimit(l.Task)
}

// Reset builds new terrain and a new lander and returns the first
// TimeStep of the next episode
func (l *lunarLander) Reset() (timestep.TimeStep, error) {
	start := l.Start()
	if err := validateStart(start, l.xBounds, l.yBounds); err != nil {
		return timestep.TimeStep{}, fmt.Errorf("reset: %v", err)
	}

	l.destroy()
	l.world.SetContactListener(newContactDetector(l))
	l.gameOver = false
	l.mPower = 0.0
	l.sPower = 0.0

	// Maximum W and H for Box2D world
	W := ViewportW / Scale
	H := ViewportH / Scale

	// Bounds
	l.boundary = make([]*box2d.B2Body, 4)
	corners := [][2]float64{{0, 0}, {0, H}, {W, H}, {W, 0}}
	for i := range l.boundary {
		boundsDef := box2d.NewB2BodyDef()
		boundsDef.Type = 0 // Static body
		l.boundary[i] = l.world.CreateBody(boundsDef)

		from, to := corners[i], corners[(i+1)%len(corners)]
		boundsShape := box2d.NewB2EdgeShape()
		boundsShape.Set(box2d.MakeB2Vec2(from[0], from[1]),
			box2d.MakeB2Vec2(to[0], to[1]))

		// The hull and legs only collide with category 0x0001, the
		// moon. The boundary marks the viewport and never touches the
		// lander, which starts with its hull above the top edge.
		boundsFix := box2d.MakeB2FixtureDef()
		boundsFix.Shape = boundsShape
		filter := box2d.MakeB2Filter()
		filter.CategoryBits = 0x0002
		boundsFix.Filter = filter
		l.boundary[i].CreateFixtureFromDef(&boundsFix)
	}

	// Terrain
	height := make([]float64, Chunks+1)
	for i := range height {
		height[i] = l.rng.Rand() * (H / 2.0)
	}

	chunkX := make([]float64, Chunks)
	for i := range chunkX {
		chunkX[i] = float64(i) * (W / float64(Chunks-1))
	}

	l.helipadX1 = chunkX[Chunks/2-1]
	l.helipadX2 = chunkX[Chunks/2+1]
	l.helipadY = H / 4

	for i := Chunks/2 - 2; i <= Chunks/2+2; i++ {
		height[i] = l.helipadY
	}

	smoothY := make([]float64, Chunks)
	for i := range smoothY {
		if i == 0 {
			smoothY[i] = 0.33 * (height[Chunks-1] + height[i] + height[i+1])
		} else {
			smoothY[i] = 0.33 * (height[i-1] + height[i] + height[i+1])
		}
	}

	moonDef := box2d.NewB2BodyDef()
	moonDef.Type = 0 // Static body
	moonDef.Position.Set(0, 0)
	l.moon = l.world.CreateBody(moonDef)

	moonShape := box2d.NewB2EdgeShape()
	moonShape.Set(box2d.MakeB2Vec2(0.0, 0.0), box2d.MakeB2Vec2(W, 0.0))
	moonFixture := box2d.MakeB2FixtureDef()
	moonFixture.Shape = moonShape
	l.moon.CreateFixtureFromDef(&moonFixture)

	l.moonVertices = make([][2]float64, 0, 2*(Chunks-1))
	for i := 0; i < Chunks-1; i++ {
		p1 := [2]float64{chunkX[i], smoothY[i]}
		p2 := [2]float64{chunkX[i+1], smoothY[i+1]}
		l.moonVertices = append(l.moonVertices, p1, p2)

		edge := box2d.NewB2EdgeShape()
		edge.Set(box2d.MakeB2Vec2(p1[0], p1[1]),
			box2d.MakeB2Vec2(p2[0], p2[1]))

		edgeFixture := box2d.MakeB2FixtureDef()
		edgeFixture.Shape = edge
		edgeFixture.Density = 0.0
		edgeFixture.Friction = 0.1
		l.moon.CreateFixtureFromDef(&edgeFixture)
	}

	// Lander
	initialX := start.AtVec(0)
	initialY := start.AtVec(1)
	landerDef := box2d.MakeB2BodyDef()
	landerDef.Type = 2 // Dynamic body
	landerDef.Position = box2d.MakeB2Vec2(initialX, initialY)
	landerDef.Angle = 0.0
	l.lander = l.world.CreateBody(&landerDef)

	landerShape := box2d.NewB2PolygonShape()
	vertices := make([]box2d.B2Vec2, len(LanderPoly))
	for i := range LanderPoly {
		vertices[i] = box2d.MakeB2Vec2(LanderPoly[i][0]/Scale,
			LanderPoly[i][1]/Scale)
	}
	landerShape.Set(vertices, len(vertices))

	landerFix := box2d.MakeB2FixtureDef()
	landerFix.Shape = landerShape
	landerFix.Density = 5.0
	landerFix.Friction = 0.1
	landerFix.Restitution = 0.0
	filter := box2d.MakeB2Filter()
	filter.CategoryBits = 0x0010
	filter.MaskBits = 0x001
	landerFix.Filter = filter
	l.lander.CreateFixtureFromDef(&landerFix)

	// Push the lander in a random direction
	initialRandom := start.AtVec(2)
	initialForce := box2d.MakeB2Vec2(
		(l.rng.Rand()*2-1)*initialRandom,
		(l.rng.Rand()*2-1)*initialRandom,
	)
	l.lander.ApplyForceToCenter(initialForce, true)

	// Legs
	l.legs = make([]*box2d.B2Body, 0, 2)
	for _, i := range []float64{-1.0, 1.0} {
		legDef := box2d.NewB2BodyDef()
		legDef.Type = 2 // Dynamic body
		legDef.Position = box2d.MakeB2Vec2(initialX-i*LegAway/Scale,
			initialY)
		legDef.Angle = i * 0.05
		leg := l.world.CreateBody(legDef)
		l.legs = append(l.legs, leg)

		legShape := box2d.NewB2PolygonShape()
		legShape.SetAsBox(LegW/Scale, LegH/Scale)

		legFix := box2d.MakeB2FixtureDef()
		legFix.Density = 1.0
		legFix.Restitution = 0.0
		legFix.Shape = legShape
		filter := box2d.MakeB2Filter()
		filter.CategoryBits = 0x0020
		filter.MaskBits = 0x001
		legFix.Filter = filter
		leg.CreateFixtureFromDef(&legFix)

		// Attach the leg to the lander with a sprung joint
		rjd := box2d.MakeB2RevoluteJointDef()
		rjd.BodyA = l.lander
		rjd.BodyB = leg
		rjd.LocalAnchorA = box2d.MakeB2Vec2(0., 0.)
		rjd.LocalAnchorB = box2d.MakeB2Vec2(i*LegAway/Scale, LegDown/Scale)
		rjd.EnableMotor = true
		rjd.EnableLimit = true
		rjd.MaxMotorTorque = LegSpringTorque
		rjd.MotorSpeed = 0.3 * i

		if i < 0 {
			rjd.LowerAngle = 0.9 - 0.5
			rjd.UpperAngle = 0.9
		} else {
			rjd.LowerAngle = -0.9
			rjd.UpperAngle = -0.9 + 0.5
		}
		l.world.CreateJoint(&rjd)
	}
	l.leg1GroundContact = false
	l.leg2GroundContact = false

	if t, ok := l.Task.(lunarLanderTask); ok {
		t.reset()
	}

	// Take one step with the engines off to settle the world
	state := l.simulate(mat.NewVecDense(ActionDims, nil))
	l.GetReward(state, mat.NewVecDense(ActionDims, nil), state)
	l.prevStep = timestep.New(timestep.First, 0, l.discount, state, 0)

	return l.prevStep, nil
}

// Step takes one environmental step given action a
func (l *lunarLander) Step(a *mat.VecDense) (timestep.TimeStep, bool,
	error) {
	if a.Len() != ActionDims {
		return timestep.TimeStep{}, false, fmt.Errorf("step: actions "+
			"should be %v-dimensional but got %v", ActionDims, a.Len())
	}

	state := l.simulate(a)
	reward := l.GetReward(l.prevStep.Observation, a, state)
	t := timestep.New(timestep.Mid, reward, l.discount, state,
		l.prevStep.Number+1)
	l.End(&t)

	l.prevStep = t
	return t, t.Last(), nil
}

// simulate fires the engines as given by the action a, advances the
// world by one frame, and returns the resulting state observation.
// Actions are clipped to [-1, 1].
func (l *lunarLander) simulate(a mat.Vector) *mat.VecDense {
	main := floatutils.ClipInterval(a.AtVec(0), l.actionBounds)
	lateral := floatutils.ClipInterval(a.AtVec(1), l.actionBounds)

	// Engines
	tip := [2]float64{
		math.Sin(l.lander.GetAngle()),
		math.Cos(l.lander.GetAngle()),
	}
	side := [2]float64{-tip[1], tip[0]}
	var dispersion [2]float64
	for i := range dispersion {
		dispersion[i] = (l.rng.Rand()*2 - 1) / Scale
	}

	// Main engine
	mPower := 0.0
	if main > 0.0 {
		mPower = (floatutils.Clip(main, 0.0, 1.0) + 1.0) * 0.5

		ox := tip[0]*(4.0/Scale+2.0*dispersion[0]) + side[0]*dispersion[1]
		oy := -tip[1]*(4.0/Scale+2.0*dispersion[0]) - side[1]*dispersion[1]

		impulsePos := box2d.MakeB2Vec2(
			l.lander.GetPosition().X+ox,
			l.lander.GetPosition().Y+oy,
		)
		linearImpulse := box2d.MakeB2Vec2(
			-ox*MainEnginePower*mPower,
			-oy*MainEnginePower*mPower,
		)
		l.lander.ApplyLinearImpulse(linearImpulse, impulsePos, true)
	}
	l.mPower = mPower

	// Orientation engines
	sPower := 0.0
	if math.Abs(lateral) > 0.5 {
		direction := floatutils.Sign(lateral)
		sPower = floatutils.Clip(math.Abs(lateral), 0.5, 1.0)

		ox := tip[0]*dispersion[0] + side[0]*(3.0*dispersion[1]+direction*
			SideEngineAway/Scale)
		oy := -tip[1]*dispersion[0] - side[1]*(3.0*dispersion[1]+direction*
			SideEngineAway/Scale)

		impulsePos := box2d.MakeB2Vec2(
			l.lander.GetPosition().X+ox-tip[0]*17.0/Scale,
			l.lander.GetPosition().Y+oy+tip[1]*SideEngineHeight/Scale,
		)
		linearImpulse := box2d.MakeB2Vec2(
			-ox*SideEnginePower*sPower,
			-oy*SideEnginePower*sPower,
		)
		l.lander.ApplyLinearImpulse(linearImpulse, impulsePos, true)
	}
	l.sPower = sPower

	l.world.Step(1.0/FPS, 6*int(Scale), 2*int(Scale))

	pos := l.lander.GetPosition()
	vel := l.lander.GetLinearVelocity()

	var leg1GroundContact, leg2GroundContact float64
	if l.leg1GroundContact {
		leg1GroundContact = 1.0
	}
	if l.leg2GroundContact {
		leg2GroundContact = 1.0
	}

	return mat.NewVecDense(StateObservations, []float64{
		(pos.X - ViewportW/Scale/2.0) / (ViewportW / Scale / 2.0),
		(pos.Y - (l.helipadY + LegDown/Scale)) / (ViewportH/Scale - l.helipadY),
		vel.X * (ViewportW / Scale / 2.0) / FPS,
		vel.Y * (ViewportH / Scale / 2.0) / FPS,
		floatutils.Wrap(l.lander.GetAngle(), l.angleBounds.Min,
			l.angleBounds.Max),
		20.0 * l.lander.GetAngularVelocity() / FPS,
		leg1GroundContact,
		leg2GroundContact,
	})
}

// DiscountSpec returns the discount specification of the environment
func (l *lunarLander) DiscountSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{l.discount})

	return environment.NewSpec(shape, environment.Discount, bound, bound,
		environment.Continuous)
}

// ObservationSpec returns the observation specification of the
// environment
func (l *lunarLander) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(StateObservations, nil)

	lowerBound := mat.NewVecDense(StateObservations, []float64{
		-1.,
		0.,
		l.velocityBounds.Min,
		l.velocityBounds.Min,
		l.angleBounds.Min,
		l.velocityBounds.Min,
		0.,
		0.,
	})

	upperBound := mat.NewVecDense(StateObservations, []float64{
		1.,
		1.,
		l.velocityBounds.Max,
		l.velocityBounds.Max,
		l.angleBounds.Max,
		l.velocityBounds.Max,
		1.,
		1.,
	})

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Continuous)
}

func validateStart(state *mat.VecDense, xBounds, yBounds r1.Interval) error {
	if state.Len() != 3 {
		return fmt.Errorf("starting values should be 3-dimensional but "+
			"got %v", state.Len())
	}

	if state.AtVec(0) > xBounds.Max || state.AtVec(0) < xBounds.Min {
		return fmt.Errorf("x position out of bounds, expected x ϵ %v "+
			"but got x = %v", xBounds, state.AtVec(0))
	}

	if state.AtVec(1) > yBounds.Max || state.AtVec(1) < yBounds.Min {
		return fmt.Errorf("y position out of bounds, expected y ϵ %v "+
			"but got y = %v", yBounds, state.AtVec(1))
	}

	return nil
}
