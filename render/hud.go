package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/pinball/render/fx"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const (
	hudMargin     = 8
	hudLineHeight = 16
)

// HUD draws fx.Lines with the built-in bitmap font.
type HUD struct {
	face  ebtext.Face
	text  color.Color
	alert color.Color
}

func NewHUD() *HUD {
	return &HUD{
		face:  ebtext.NewGoXFace(basicfont.Face7x13),
		text:  colornames.White,
		alert: colornames.Gold,
	}
}

func (h *HUD) Draw(screen *ebiten.Image, st fx.Status) {
	bounds := screen.Bounds()
	w, hgt := float64(bounds.Dx()), float64(bounds.Dy())

	for _, line := range fx.Lines(st) {
		op := &ebtext.DrawOptions{}
		y := hudMargin + float64(line.Row*hudLineHeight)
		switch line.Anchor {
		case fx.TopLeft:
			op.GeoM.Translate(hudMargin, y)
		case fx.TopRight:
			op.PrimaryAlign = ebtext.AlignEnd
			op.GeoM.Translate(w-hudMargin, y)
		case fx.Center:
			op.PrimaryAlign = ebtext.AlignCenter
			op.GeoM.Translate(w/2, hgt/2+float64(line.Row*hudLineHeight))
		case fx.Bottom:
			op.PrimaryAlign = ebtext.AlignCenter
			op.GeoM.Translate(w/2, hgt-hudMargin-hudLineHeight*float64(line.Row+1))
		}
		clr := h.text
		if line.Alert {
			clr = h.alert
		}
		op.ColorScale.ScaleWithColor(clr)
		ebtext.Draw(screen, line.Text, h.face, op)
	}
}
