// A small visual demo: short-lived squares bounce around the window,
// expire, and get respawned. Run it with `go run ./sample`.
package main

import (
	"fmt"
	"image/color"
	"log"
	"math/rand"

	"github.com/google/corgi"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	screenWidth  = 640
	screenHeight = 480
	numSquares   = 64
	frameTime    = corgi.WorldTime(1000 / 60)
)

type motionData struct {
	x, y   float64
	vx, vy float64
}

type motionComponent struct {
	corgi.Component[motionData]
}

func (c *motionComponent) UpdateAllEntities(delta corgi.WorldTime) {
	seconds := float64(delta) / float64(corgi.MillisecondsPerSecond)
	for it := c.Begin(); it != c.End(); it = it.Next() {
		data := it.Data()
		data.x += data.vx * seconds
		data.y += data.vy * seconds
		if data.x < 0 || data.x > screenWidth {
			data.vx = -data.vx
		}
		if data.y < 0 || data.y > screenHeight {
			data.vy = -data.vy
		}
	}
}

type lifetimeData struct {
	remaining corgi.WorldTime
}

// lifetimeComponent marks entities for deletion once their time runs
// out. The actual teardown happens at the frame's deletion barrier.
type lifetimeComponent struct {
	corgi.Component[lifetimeData]
}

func (c *lifetimeComponent) UpdateAllEntities(delta corgi.WorldTime) {
	for it := c.Begin(); it != c.End(); it = it.Next() {
		data := it.Data()
		data.remaining -= delta
		if data.remaining <= 0 {
			c.Manager().DeleteEntity(it.Entity())
		}
	}
}

type spriteData struct {
	size  float64
	color color.RGBA
}

type spriteComponent struct {
	corgi.Component[spriteData]
}

func (c *spriteComponent) Draw(screen *ebiten.Image) {
	for it := c.Begin(); it != c.End(); it = it.Next() {
		sprite := it.Data()
		pos := corgi.GetComponentData[motionData](c.Manager(), it.Entity())
		if pos == nil {
			continue
		}
		vector.DrawFilledRect(screen,
			float32(pos.x), float32(pos.y),
			float32(sprite.size), float32(sprite.size),
			sprite.color, false)
	}
}

type game struct {
	manager *corgi.EntityManager
	sprites *spriteComponent
}

func newGame() *game {
	manager := corgi.NewEntityManager()
	sprites := &spriteComponent{}
	manager.RegisterComponent(&motionComponent{})
	manager.RegisterComponent(&lifetimeComponent{})
	manager.RegisterComponent(sprites)

	g := &game{manager: manager, sprites: sprites}
	for range numSquares {
		g.spawnSquare()
	}
	return g
}

func (g *game) spawnSquare() {
	e := g.manager.AllocateNewEntity()

	pos := corgi.AddEntityToComponent[motionData](g.manager, e)
	pos.x = rand.Float64() * screenWidth
	pos.y = rand.Float64() * screenHeight
	pos.vx = rand.Float64()*200 - 100
	pos.vy = rand.Float64()*200 - 100

	life := corgi.AddEntityToComponent[lifetimeData](g.manager, e)
	life.remaining = corgi.WorldTime(2000 + rand.Intn(6000))

	sprite := corgi.AddEntityToComponent[spriteData](g.manager, e)
	sprite.size = 4 + rand.Float64()*12
	sprite.color = color.RGBA{
		R: uint8(64 + rand.Intn(192)),
		G: uint8(64 + rand.Intn(192)),
		B: uint8(64 + rand.Intn(192)),
		A: 255,
	}
}

func (g *game) Update() error {
	g.manager.UpdateComponents(frameTime)
	g.manager.DeleteMarkedEntities()
	for g.manager.EntityCount() < numSquares {
		g.spawnSquare()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.sprites.Draw(screen)
	msg := fmt.Sprintf("FPS: %0.2f\nEntities: %d", ebiten.ActualFPS(), g.manager.EntityCount())
	ebitenutil.DebugPrint(screen, msg)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Corgi Sample")
	if err := ebiten.RunGame(newGame()); err != nil {
		log.Fatal(err)
	}
}
