package corgi_test

import (
	"fmt"

	"github.com/google/corgi"
)

// tickData holds an int counter for each entity, incremented on every
// update.
type tickData struct {
	ticks int
}

type tickComponent struct {
	corgi.Component[tickData]
}

func (c *tickComponent) UpdateAllEntities(delta corgi.WorldTime) {
	for it := c.Begin(); it != c.End(); it = it.Next() {
		it.Data().ticks++
	}
}

// shoutData holds a battle cry that is printed whenever a long enough
// frame goes by.
type shoutData struct {
	battleCry string
}

type shoutComponent struct {
	corgi.Component[shoutData]
}

func (c *shoutComponent) InitEntity(e corgi.EntityRef) {
	c.GetComponentData(e).battleCry = "Prepare to battle!!!!!!!"
}

func (c *shoutComponent) UpdateAllEntities(delta corgi.WorldTime) {
	if delta > 10 {
		for it := c.Begin(); it != c.End(); it = it.Next() {
			fmt.Println(it.Data().battleCry)
		}
	}
}

func Example() {
	// Components are updated in registration order, so the tick counter
	// always advances before the shouting happens.
	manager := corgi.NewEntityManager()
	manager.RegisterComponent(&tickComponent{})
	manager.RegisterComponent(&shoutComponent{})

	entity := manager.AllocateNewEntity()
	corgi.AddEntityToComponent[tickData](manager, entity)
	corgi.AddEntityToComponent[shoutData](manager, entity)

	// Simulate a game loop running for ten frames. Frames longer than
	// ten milliseconds make the shout component print its battle cry.
	deltas := []corgi.WorldTime{4, 8, 16, 2, 6, 12, 9, 3, 18, 7}
	for _, delta := range deltas {
		manager.UpdateComponents(delta)
	}

	data := corgi.GetComponentData[tickData](manager, entity)
	fmt.Printf("The current counter is = %d.\n", data.ticks)

	// Output:
	// Prepare to battle!!!!!!!
	// Prepare to battle!!!!!!!
	// Prepare to battle!!!!!!!
	// The current counter is = 10.
}
