package game

import (
	"chosenoffset.com/spritewalk/internal/anim"
	"chosenoffset.com/spritewalk/internal/geom"
)

// Character is the walker the player controls. Pos is the top-left corner
// of its sprite in world coordinates.
type Character struct {
	Pos  geom.Vec2
	Anim *anim.Animator
}

// State returns the character's animation state.
func (c *Character) State() anim.State {
	return c.Anim.State()
}
