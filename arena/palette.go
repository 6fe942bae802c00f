package arena

import "image/color"

var (
	// PlayerColor is the colour of the player ball
	PlayerColor = color.RGBA{100, 200, 255, 255}

	// ProjectileColor is the colour of fired projectiles
	ProjectileColor = color.RGBA{255, 1, 1, 255}

	// SwarmPalette holds the colours swarm entities are drawn from
	SwarmPalette = []color.RGBA{
		{255, 100, 100, 255},
		{100, 255, 100, 255},
		{255, 255, 100, 255},
		{255, 150, 255, 255},
	}
)

// swarmColor picks a palette colour with one draw
func swarmColor(r Rand) color.RGBA {
	i := int(r.Float64() * float64(len(SwarmPalette)))
	if i >= len(SwarmPalette) {
		i = len(SwarmPalette) - 1
	}
	return SwarmPalette[i]
}
