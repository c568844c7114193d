package main

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	colorWhite = color.RGBA{255, 255, 255, 255}

	// Background colors for semi-transparent overlays
	bgColorLight = color.RGBA{0, 0, 0, 128}
	bgColorDark  = color.RGBA{0, 0, 0, 200}
)

// fontCache lazily initializes the overlay font source.
type fontCache struct {
	source *text.GoTextFaceSource
}

func (f *fontCache) face(size float64) *text.GoTextFace {
	if f.source == nil {
		s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			// goregular is embedded; a parse failure would be a build defect.
			logger.Error().Str("component", "graphics").Err(err).Msg("font init failed")
			return nil
		}
		f.source = s
	}
	return &text.GoTextFace{Source: f.source, Size: size}
}

// DrawText draws text with specified position and color.
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// DrawFilledRect draws filled rectangles with float64 coordinates.
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

// drawInfoLine renders "n / N  label  zoom%" in the bottom right corner.
func (s *ViewerSession) drawInfoLine(screen *ebiten.Image) {
	if s.fonts == nil {
		s.fonts = &fontCache{}
	}
	font := s.fonts.face(s.config.FontSize)
	if font == nil {
		return
	}

	infoText := fmt.Sprintf("%d / %d  %s  %.0f%%",
		s.seq.Index()+1, s.seq.Len(), s.seq.Current().Label(), s.zoom*100)

	textWidth, textHeight := text.Measure(infoText, font, 0)

	padding := 10.0
	textX := float64(screen.Bounds().Dx()) - textWidth - padding
	textY := float64(screen.Bounds().Dy()) - textHeight - padding

	bgPadding := 5.0
	DrawFilledRect(screen, textX-bgPadding, textY-bgPadding,
		textWidth+bgPadding*2, textHeight+bgPadding*2, bgColorLight)

	DrawText(screen, infoText, font, textX, textY, colorWhite)
}

// drawOverlayMessage renders the transient centered message box used for
// rejected navigation steps.
func (s *ViewerSession) drawOverlayMessage(screen *ebiten.Image) {
	if s.fonts == nil {
		s.fonts = &fontCache{}
	}
	font := s.fonts.face(s.config.FontSize)
	if font == nil {
		return
	}

	textWidth, textHeight := text.Measure(s.overlayMessage, font, 0)

	padding := 20.0
	boxWidth := textWidth + padding*2
	boxHeight := textHeight + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxWidth) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxHeight) / 2

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorDark)
	DrawText(screen, s.overlayMessage, font, boxX+padding, boxY+padding, colorWhite)
}
