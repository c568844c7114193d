package main

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Zoom limits and the per-notch factor.
const (
	zoomMin  = 0.1
	zoomMax  = 10.0
	zoomStep = 1.1
)

const overlayMessageDuration = 2 * time.Second

// InputEventKind enumerates the discrete inputs the session consumes. Host
// callbacks (keys, wheel, resize) are collapsed into this one union so the
// state machine stays testable without a GUI host.
type InputEventKind int

const (
	EventStepNext InputEventKind = iota
	EventStepPrevious
	EventJumpFirst
	EventJumpLast
	EventZoomDelta
	EventZoomReset
	EventToggleFullscreen
	EventToggleInfo
	EventQuit
	EventResize
)

// InputEvent is one discrete input. Notches is set for EventZoomDelta
// (positive zooms in), Width/Height for EventResize.
type InputEvent struct {
	Kind    InputEventKind
	Notches int
	Width   int
	Height  int
}

// imageLoader is what the session needs from the decoder.
type imageLoader interface {
	Decode(ref ImageRef) (*DecodedImage, error)
}

// eventSource is what the session needs from the input layer.
type eventSource interface {
	Poll() []InputEvent
}

// ViewerSession owns the viewer state: the resolved sequence, the decoded
// image for the current index, the zoom factor and the GPU pipeline. All
// mutation happens on the run-loop goroutine; events arrive serially.
type ViewerSession struct {
	seq      *ImageSequence
	loader   imageLoader
	pipeline *Pipeline
	input    eventSource

	current *DecodedImage
	zoom    float64

	// displaying flips to true after the first successful decode and never
	// back; a failed first decode is fatal before the session exists.
	displaying   bool
	textureStale bool
	quitting     bool

	fullscreen bool
	showInfo   bool
	savedWinW  int
	savedWinH  int

	viewportW int
	viewportH int

	overlayMessage string
	overlayTime    time.Time

	fonts  *fontCache
	config Config
}

// NewViewerSession decodes the first image of seq and builds the session.
// A failed first decode is a fatal startup error.
func NewViewerSession(seq *ImageSequence, loader imageLoader, pipeline *Pipeline, config Config) (*ViewerSession, error) {
	first, err := loader.Decode(seq.Current())
	if err != nil {
		return nil, err
	}

	s := &ViewerSession{
		seq:          seq,
		loader:       loader,
		pipeline:     pipeline,
		current:      first,
		zoom:         1.0,
		displaying:   true,
		textureStale: true,
		fullscreen:   config.Fullscreen,
		showInfo:     config.ShowInfo,
		viewportW:    config.WindowWidth,
		viewportH:    config.WindowHeight,
		config:       config,
	}
	return s, nil
}

// SetInput attaches the event source polled each Update.
func (s *ViewerSession) SetInput(input eventSource) {
	s.input = input
}

// Zoom returns the current zoom factor.
func (s *ViewerSession) Zoom() float64 { return s.zoom }

// Index returns the current sequence index.
func (s *ViewerSession) Index() int { return s.seq.Index() }

// Current returns the decoded image being displayed.
func (s *ViewerSession) Current() *DecodedImage { return s.current }

// Apply performs one state transition. Navigation decodes the target before
// committing: on decode failure the step is rejected, the previous image
// stays displayed and the failure is surfaced as an overlay message.
func (s *ViewerSession) Apply(ev InputEvent) {
	switch ev.Kind {
	case EventStepNext:
		s.stepTo(s.seq.Index() + 1)
	case EventStepPrevious:
		s.stepTo(s.seq.Index() - 1)
	case EventJumpFirst:
		s.stepTo(0)
	case EventJumpLast:
		s.stepTo(s.seq.Len() - 1)
	case EventZoomDelta:
		s.applyZoom(ev.Notches)
	case EventZoomReset:
		s.zoom = 1.0
	case EventToggleFullscreen:
		s.toggleFullscreen()
	case EventToggleInfo:
		s.showInfo = !s.showInfo
	case EventResize:
		if ev.Width > 0 && ev.Height > 0 {
			s.viewportW, s.viewportH = ev.Width, ev.Height
		}
	case EventQuit:
		s.quitting = true
	}
}

// stepTo moves to index i. Out-of-range targets and the current index are
// no-ops; navigation does not wrap around either end.
func (s *ViewerSession) stepTo(i int) {
	if i == s.seq.Index() {
		return
	}
	ref, ok := s.seq.At(i)
	if !ok {
		return
	}

	img, err := s.loader.Decode(ref)
	if err != nil {
		logger.Error().Str("component", "session").Err(err).
			Str("image", ref.Label()).Msg("decode failed, step rejected")
		s.showOverlayMessage(fmt.Sprintf("Failed to load %s", ref.Label()))
		return
	}

	s.seq.Move(i)
	s.current = img
	s.zoom = 1.0
	s.textureStale = true
	logger.Debug().Str("component", "session").
		Int("index", i).Str("image", ref.Label()).Msg("navigated")
}

func (s *ViewerSession) applyZoom(notches int) {
	if notches > 0 {
		for i := 0; i < notches; i++ {
			s.zoom *= zoomStep
		}
	} else {
		for i := 0; i < -notches; i++ {
			s.zoom /= zoomStep
		}
	}
	if s.zoom < zoomMin {
		s.zoom = zoomMin
	}
	if s.zoom > zoomMax {
		s.zoom = zoomMax
	}
}

func (s *ViewerSession) toggleFullscreen() {
	s.fullscreen = !s.fullscreen
	if s.fullscreen {
		s.savedWinW, s.savedWinH = ebiten.WindowSize()
		ebiten.SetFullscreen(true)
	} else {
		ebiten.SetFullscreen(false)
		if s.savedWinW > 0 && s.savedWinH > 0 {
			ebiten.SetWindowSize(s.savedWinW, s.savedWinH)
		}
	}
}

func (s *ViewerSession) showOverlayMessage(message string) {
	s.overlayMessage = message
	s.overlayTime = time.Now()
}

// saveWindowSize records the current window geometry into the config file.
// Viewer state (index, zoom) is deliberately not persisted.
func (s *ViewerSession) saveWindowSize() {
	if s.fullscreen {
		if s.savedWinW > 0 && s.savedWinH > 0 {
			s.config.WindowWidth = s.savedWinW
			s.config.WindowHeight = s.savedWinH
		}
	} else {
		s.config.WindowWidth, s.config.WindowHeight = ebiten.WindowSize()
	}
	saveConfig(s.config)
}

// Update drains the frame's input events through Apply. Quit terminates the
// run loop after saving window geometry and releasing GPU resources.
func (s *ViewerSession) Update() error {
	if s.input != nil {
		for _, ev := range s.input.Poll() {
			s.Apply(ev)
		}
	}
	if s.quitting {
		s.saveWindowSize()
		s.pipeline.Dispose()
		return ebiten.Termination
	}
	return nil
}

// Draw uploads a stale texture, recomputes the fit-to-window scale from the
// live screen size and issues the quad draw, then any overlays.
func (s *ViewerSession) Draw(screen *ebiten.Image) {
	if s.textureStale {
		if err := s.pipeline.SetImage(s.current); err != nil {
			logger.Error().Str("component", "session").Err(err).Msg("texture upload failed")
		}
		s.textureStale = false
	}

	b := screen.Bounds()
	s.viewportW, s.viewportH = b.Dx(), b.Dy()

	if s.current != nil {
		sx, sy := computeScale(s.current.Width, s.current.Height, s.viewportW, s.viewportH, s.zoom)
		s.pipeline.Draw(screen, sx, sy)
	}

	if s.showInfo {
		s.drawInfoLine(screen)
	}
	if s.overlayMessage != "" && time.Since(s.overlayTime) < overlayMessageDuration {
		s.drawOverlayMessage(screen)
	}
}

// Layout maps the outside window size 1:1 to the render viewport.
func (s *ViewerSession) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
