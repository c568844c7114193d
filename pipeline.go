package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// quadShaderSrc is the textured-quad program: the vertex stage is ebiten's
// (positions arrive already projected, texture coordinates pass through
// unchanged) and the fragment stage samples the bound source image with
// bilinear filtering in both directions.
const quadShaderSrc = `//kage:unit pixels

package main

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	p := srcPos - 0.5
	p0 := floor(p)
	f := p - p0
	c00 := imageSrc0At(p0 + vec2(0.5, 0.5))
	c10 := imageSrc0At(p0 + vec2(1.5, 0.5))
	c01 := imageSrc0At(p0 + vec2(0.5, 1.5))
	c11 := imageSrc0At(p0 + vec2(1.5, 1.5))
	return mix(mix(c00, c10, f.x), mix(c01, c11, f.x), f.y)
}
`

// Images larger than this on either axis are rejected instead of handed to
// the GPU, which would fault on oversized textures.
const maxTextureDim = 16384

// quadVertex is one corner of the static unit quad in normalized device
// coordinates, with its texture coordinate. V is flipped relative to Y:
// a top-left-origin pixel buffer against bottom-left-origin clip space.
type quadVertex struct {
	x, y float32 // position in NDC [-1,1]
	u, v float32 // texture coordinate [0,1]
}

var quadVertices = [4]quadVertex{
	{-1, -1, 0, 1},
	{1, -1, 1, 1},
	{1, 1, 1, 0},
	{-1, 1, 0, 0},
}

// Two triangles, wound consistently.
var quadIndices = []uint16{0, 1, 2, 2, 3, 0}

// projectQuad scales the unit quad by (scaleX, scaleY) and maps it from
// clip space to screen pixels, producing the vertices for one draw. Texture
// coordinates are expanded to texel units for the pixel-unit shader.
func projectQuad(scaleX, scaleY float64, viewportW, viewportH, texW, texH int) []ebiten.Vertex {
	vs := make([]ebiten.Vertex, len(quadVertices))
	for i, q := range quadVertices {
		ndcX := float64(q.x) * scaleX
		ndcY := float64(q.y) * scaleY
		vs[i] = ebiten.Vertex{
			DstX:   float32((ndcX + 1) / 2 * float64(viewportW)),
			DstY:   float32((1 - ndcY) / 2 * float64(viewportH)),
			SrcX:   q.u * float32(texW),
			SrcY:   q.v * float32(texH),
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		}
	}
	return vs
}

// Pipeline owns the GPU-side state: the compiled quad shader and the
// texture for the currently displayed image. Exactly one texture is live at
// a time; it is replaced, never updated in place, since dimensions differ
// between images.
type Pipeline struct {
	shader  *ebiten.Shader
	texture *ebiten.Image
	texW    int
	texH    int
}

// NewPipeline compiles the quad shader. On compile failure the returned
// pipeline is still usable but draws nothing; the error reports the cause.
func NewPipeline() (*Pipeline, error) {
	shader, err := ebiten.NewShader([]byte(quadShaderSrc))
	if err != nil {
		return &Pipeline{}, fmt.Errorf("%w: %v", ErrShader, err)
	}
	return &Pipeline{shader: shader}, nil
}

// SetImage replaces the live texture with one built from img. A nil img
// just releases the current texture. On failure no texture stays bound and
// Draw degrades to clear-only until the next successful SetImage.
func (p *Pipeline) SetImage(img *DecodedImage) error {
	if p.texture != nil {
		p.texture.Deallocate()
		p.texture = nil
		p.texW, p.texH = 0, 0
	}
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil
	}
	if img.Width > maxTextureDim || img.Height > maxTextureDim {
		return fmt.Errorf("%w: %dx%d exceeds texture limit", ErrTexture, img.Width, img.Height)
	}

	// NewImageFromImage premultiplies the straight-alpha buffer on upload.
	tex := ebiten.NewImageFromImage(img.NRGBA())
	if tex == nil {
		return fmt.Errorf("%w: %dx%d", ErrTexture, img.Width, img.Height)
	}
	p.texture = tex
	p.texW, p.texH = img.Width, img.Height
	logger.Debug().Str("component", "pipeline").
		Int("width", img.Width).Int("height", img.Height).Msg("texture replaced")
	return nil
}

// Ready reports whether a draw would actually render an image.
func (p *Pipeline) Ready() bool {
	return p.shader != nil && p.texture != nil
}

// Draw renders the textured quad scaled by (scaleX, scaleY) onto screen.
// With no texture or no compiled shader the draw is a no-op; the already
// cleared screen is left as is.
func (p *Pipeline) Draw(screen *ebiten.Image, scaleX, scaleY float64) {
	if !p.Ready() {
		return
	}

	b := screen.Bounds()
	vertices := projectQuad(scaleX, scaleY, b.Dx(), b.Dy(), p.texW, p.texH)

	op := &ebiten.DrawTrianglesShaderOptions{}
	op.Images[0] = p.texture
	screen.DrawTrianglesShader(vertices, quadIndices, p.shader, op)
}

// Dispose releases GPU resources in reverse order of acquisition. Must run
// while the context is still live, before the run loop returns.
func (p *Pipeline) Dispose() {
	if p.texture != nil {
		p.texture.Deallocate()
		p.texture = nil
	}
	if p.shader != nil {
		p.shader.Deallocate()
		p.shader = nil
	}
}
