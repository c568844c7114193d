package main

// computeScale returns the aspect-ratio-preserving scale factors applied to
// the unit quad so the image fills the viewport on its longer relative axis,
// letterboxing the other. Both factors carry the zoom multiplier. Called
// every frame with the live viewport size; never cached.
func computeScale(imageW, imageH, viewportW, viewportH int, zoom float64) (float64, float64) {
	if imageW <= 0 || imageH <= 0 || viewportW <= 0 || viewportH <= 0 {
		return 0, 0
	}

	imageAspect := float64(imageW) / float64(imageH)
	viewportAspect := float64(viewportW) / float64(viewportH)

	scaleX, scaleY := 1.0, 1.0
	if imageAspect > viewportAspect {
		// Image relatively wider than the viewport: span the width.
		scaleY = viewportAspect / imageAspect
	} else {
		scaleX = imageAspect / viewportAspect
	}

	return scaleX * zoom, scaleY * zoom
}
