package tasks

import (
	"github.com/WilliamYue37/LTMB/grid"
	"github.com/WilliamYue37/LTMB/types"
	"github.com/WilliamYue37/LTMB/util"
)

const countingMission = "Go through the green door if there are an even number of objects of the same color as the object in the room, otherwise go through the red door"

var (
	countingStart   = grid.Point{X: 2, Y: 3}
	countingExit    = grid.Point{X: 2, Y: 0}
	countingGreen   = grid.Point{X: 1, Y: 0}
	countingRed     = grid.Point{X: 3, Y: 0}
	countingQuery   = grid.Point{X: 2, Y: 1}
	countingObjects = []grid.Point{{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 1, Y: 2}, {X: 3, Y: 2}, {X: 1, Y: 3}, {X: 3, Y: 3}}
)

// Counting is a sequence of Length rooms entered through the top wall.
// Normal rooms show up to six objects that are counted for the whole
// episode. Test rooms show one object and two doors: green is correct
// when the object has been seen an even number of times so far, red otherwise.
type Counting struct {
	base
	cfg Config

	// hidden state
	counts       *util.MultiSet
	roomsVisited int
	testRoom     bool
	correctDoor  grid.Point
}

var _ types.Environment = &Counting{}

func NewCounting(cfg Config) (*Counting, error) {
	if err := cfg.Validate(CountingName); err != nil {
		return nil, err
	}
	return &Counting{
		base:   newBase(CountingName, grid.NewEnv(5, 5, 7*cfg.Length, countingMission)),
		cfg:    cfg,
		counts: util.NewMultiSet(),
	}, nil
}

func (c *Counting) genNormalRoom() {
	c.PlaceAgent(countingStart, grid.North)
	c.testRoom = false

	c.Grid.Set(countingExit.X, countingExit.Y, grid.NewDoor(grid.Blue))

	for _, p := range countingObjects {
		o := c.RandObject()
		if c.RandFloat() >= c.cfg.EmptyFreq {
			c.Grid.Set(p.X, p.Y, grid.ObjectCell(o))
			c.counts.Add(o)
		}
	}
}

// correctDoorFor returns the green door for even counts and the red one otherwise
func correctDoorFor(count int) grid.Point {
	if count%2 == 0 {
		return countingGreen
	}
	return countingRed
}

func (c *Counting) genTestRoom() {
	c.PlaceAgent(countingStart, grid.North)
	c.testRoom = true

	c.Grid.Set(countingGreen.X, countingGreen.Y, grid.NewDoor(grid.Green))
	c.Grid.Set(countingRed.X, countingRed.Y, grid.NewDoor(grid.Red))

	o := c.RandObject()
	c.Grid.Set(countingQuery.X, countingQuery.Y, grid.ObjectCell(o))
	c.correctDoor = correctDoorFor(c.counts.Count(o))
}

func (c *Counting) clearRoom() {
	for i := 1; i < 4; i++ {
		for j := 1; j < 4; j++ {
			c.Grid.Clear(i, j)
		}
	}
	c.Grid.HorzWall(0, 0)
}

func (c *Counting) Reset(seed int64) grid.Observation {
	c.Env.Reset(seed)
	c.counts = util.NewMultiSet()
	c.roomsVisited = 1
	c.Grid.WallRect()
	c.genNormalRoom()
	c.begin()
	return c.Observe()
}

func (c *Counting) Step(a grid.Action) (types.StepResult, error) {
	if err := c.checkActive(); err != nil {
		return types.StepResult{}, err
	}
	if a == grid.Pickup {
		a = grid.Toggle
	}
	res := types.StepResult{Truncated: c.Env.Step(a)}

	if c.AgentPos.Y == 0 {
		if c.testRoom && c.AgentPos != c.correctDoor {
			res.Terminated = true
			res.Info.Success = false
			res.Observation = c.Observe()
			return c.finish(res), nil
		}

		if c.roomsVisited == c.cfg.Length {
			res.Terminated = true
			res.Reward = 1
			res.Info.Success = true
			res.Observation = c.Observe()
			return c.finish(res), nil
		}

		c.clearRoom()
		if c.RandFloat() < c.cfg.TestFreq {
			c.genTestRoom()
		} else {
			c.genNormalRoom()
		}
		c.roomsVisited += 1
	}

	// running out of steps counts as a success
	if res.Truncated || res.Terminated {
		res.Reward = 1
		res.Info.Success = true
	}
	res.Observation = c.Observe()
	return c.finish(res), nil
}

// Count of an object over the normal rooms visited so far
func (c *Counting) Count(o grid.Object) int {
	return c.counts.Count(o)
}

// CorrectDoor of the current test room
func (c *Counting) CorrectDoor() grid.Point {
	return c.correctDoor
}
