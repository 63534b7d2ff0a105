package shelf_test

import (
	"context"
	"strings"

	"github.com/reoring/shelf"
)

type Counter struct {
	Value int `json:"value"`
}

func (c *Counter) Add() { c.Value++ }

type Holder struct {
	Name string   `json:"name"`
	A    *Counter `json:"a"`
	B    any      `json:"b"`
	Hook func()   `json:"hook"`
}

func NewHolder() *Holder {
	return &Holder{A: &Counter{}, B: 1}
}

type Person struct {
	Name string `json:"name"`
}

type Animal struct {
	Name string `json:"name"`
	Legs int    `json:"legs"`
}

type Dog struct {
	Animal
	Breed string `json:"breed"`
}

type Creature struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type Pet struct {
	Creature
	Owner string `json:"owner"`
}

type Puppy struct {
	Pet
	Toy string `json:"toy"`
}

type Engine struct {
	Serial string `json:"serial"`
	Ready  bool   `json:"-"`
}

type Car struct {
	Model  string  `json:"model"`
	Engine *Engine `json:"engine"`
}

type Garage struct {
	Owner string `json:"owner"`
	Cars  []*Car `json:"cars"`
}

var (
	CounterType  = shelf.Define[Counter]("test.Counter", nil)
	HolderType   = shelf.Define[Holder]("test.Holder", NewHolder)
	PersonType   = shelf.Define[Person]("test.Person", nil)
	AnimalType   = shelf.Define[Animal]("test.Animal", nil)
	DogType      = shelf.Define[Dog]("test.Dog", nil)
	CarType      = shelf.Define[Car]("test.Car", nil)
	GarageType   = shelf.Define[Garage]("test.Garage", nil)
	CreatureType = shelf.Define[Creature]("test.Creature", nil)
	PetType      = shelf.Define[Pet]("test.Pet", nil)
	PuppyType    = shelf.Define[Puppy]("test.Puppy", nil)

	// engineBuilds counts runs of the Engine constructor.
	engineBuilds int
	EngineType   = shelf.Define[Engine]("test.Engine", func() *Engine {
		engineBuilds++
		return &Engine{Ready: true}
	})
)

// newCounterRegistry registers Counter and Holder the way most tests need.
func newCounterRegistry() *shelf.Registry {
	reg := shelf.NewRegistry()
	reg.Register(CounterType, "0.1.0", shelf.Fields{"value": shelf.Primitive})
	reg.Register(HolderType, "0.2.0", shelf.Fields{
		"name": shelf.Primitive,
		"a":    CounterType,
		"b":    nil,
		"hook": nil,
	})
	return reg
}

func newCarRegistry() *shelf.Registry {
	reg := shelf.NewRegistry()
	reg.Register(EngineType, "1.0.0", shelf.Fields{"serial": shelf.Primitive})
	reg.Register(CarType, "1.0.0", shelf.Fields{"model": shelf.Primitive, "engine": EngineType})
	reg.Register(GarageType, "1.0.0", shelf.Fields{"owner": shelf.Primitive, "cars": CarType})
	return reg
}

// newPuppyRegistry chains Puppy -> Pet -> Creature, one upgrade per level.
// Every upgrade appends its level to *steps.
func newPuppyRegistry(steps *[]string) *shelf.Registry {
	step := func(level string, fn func(shelf.Record)) shelf.UpgradeFunc {
		return func(_ context.Context, r shelf.Record) (shelf.Record, error) {
			*steps = append(*steps, level)
			fn(r)
			return r, nil
		}
	}
	reg := shelf.NewRegistry()
	reg.Register(CreatureType, "0.1.0", shelf.Fields{"name": shelf.Primitive, "kind": shelf.Primitive}).
		Upgrade("0.1.0", step("creature", func(r shelf.Record) {
			r["kind"] = "creature"
			r["name"] = "creature " + r["name"].(string)
		}))
	reg.Register(PetType, "0.2.0", shelf.Fields{"name": shelf.Primitive, "owner": shelf.Primitive}).
		Extend(CreatureType).
		Upgrade("0.2.0", step("pet", func(r shelf.Record) {
			if _, ok := r["owner"]; !ok {
				r["owner"] = "nobody"
			}
			r["name"] = "pet " + r["name"].(string)
		}))
	reg.Register(PuppyType, "0.3.0", shelf.Fields{"toy": shelf.Primitive}).
		Extend(PetType).
		Upgrade("0.3.0", step("puppy", func(r shelf.Record) {
			r["toy"] = r["toy"].(string) + " (" + r["kind"].(string) + ")"
		}))
	return reg
}

func prefixName(p string) shelf.UpgradeFunc {
	return func(_ context.Context, r shelf.Record) (shelf.Record, error) {
		name, _ := r["name"].(string)
		r["name"] = p + name
		return r, nil
	}
}

func upper(_ context.Context, r shelf.Record) (shelf.Record, error) {
	name, _ := r["name"].(string)
	r["name"] = strings.ToUpper(name)
	return r, nil
}
