package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/pinball/gameplay"
)

// Keys maps player actions to keyboard keys.
type Keys struct {
	LeftFlipper  []ebiten.Key
	RightFlipper []ebiten.Key
	Plunger      []ebiten.Key
	Continue     []ebiten.Key
	Debug        []ebiten.Key
}

// DefaultKeys are the arrow keys for play, space to continue and F1 for the debug overlay.
var DefaultKeys = Keys{
	LeftFlipper:  []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA},
	RightFlipper: []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD},
	Plunger:      []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS},
	Continue:     []ebiten.Key{ebiten.KeySpace},
	Debug:        []ebiten.Key{ebiten.KeyF1},
}

// Poller turns the keyboard and mouse into gameplay commands once per tick.
type Poller struct {
	keys Keys
	// scale converts cursor coordinates from layout space to table pixels.
	scale float64
}

func NewPoller(keys Keys, scale float64) *Poller {
	if scale <= 0 {
		scale = 1
	}
	return &Poller{keys: keys, scale: scale}
}

// Poll reads the current input state. Call it from ebiten's Update.
func (p *Poller) Poll() gameplay.Commands {
	var cmds gameplay.Commands

	cmds.LeftFlipper = anyPressed(p.keys.LeftFlipper)
	cmds.LeftPressed = anyJustPressed(p.keys.LeftFlipper)
	cmds.LeftReleased = anyJustReleased(p.keys.LeftFlipper)

	cmds.RightFlipper = anyPressed(p.keys.RightFlipper)
	cmds.RightPressed = anyJustPressed(p.keys.RightFlipper)
	cmds.RightReleased = anyJustReleased(p.keys.RightFlipper)

	cmds.PlungerHeld = anyPressed(p.keys.Plunger)
	cmds.PlungerPressed = anyJustPressed(p.keys.Plunger)
	cmds.PlungerReleased = anyJustReleased(p.keys.Plunger)

	cmds.Continue = anyJustPressed(p.keys.Continue)
	cmds.ToggleDebug = anyJustPressed(p.keys.Debug)

	mx, my := ebiten.CursorPosition()
	cmds.CursorX = int(float64(mx) / p.scale)
	cmds.CursorY = int(float64(my) / p.scale)
	cmds.DragStart = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	cmds.DragHeld = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	cmds.DragEnd = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		cmds.LeftFlipper = cmds.LeftFlipper || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontTopLeft)
		cmds.LeftPressed = cmds.LeftPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontTopLeft)
		cmds.LeftReleased = cmds.LeftReleased || inpututil.IsStandardGamepadButtonJustReleased(id, ebiten.StandardGamepadButtonFrontTopLeft)
		cmds.RightFlipper = cmds.RightFlipper || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontTopRight)
		cmds.RightPressed = cmds.RightPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontTopRight)
		cmds.RightReleased = cmds.RightReleased || inpututil.IsStandardGamepadButtonJustReleased(id, ebiten.StandardGamepadButtonFrontTopRight)
		cmds.PlungerHeld = cmds.PlungerHeld || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		cmds.PlungerPressed = cmds.PlungerPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		cmds.PlungerReleased = cmds.PlungerReleased || inpututil.IsStandardGamepadButtonJustReleased(id, ebiten.StandardGamepadButtonRightBottom)
		cmds.Continue = cmds.Continue || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
	}

	return cmds
}

func anyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func anyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

func anyJustReleased(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustReleased(k) {
			return true
		}
	}
	return false
}
