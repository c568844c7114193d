package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <path-to-image-or-directory>\n", filepath.Base(os.Args[0]))
	fmt.Fprintf(os.Stderr, "       <producer> | %s\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

// stdinIsPiped reports whether stdin carries redirected data rather than a
// terminal.
func stdinIsPiped() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice == 0
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Usage = usage
	flag.Parse()
	setupLogger(*debug)

	result := loadConfig()
	for _, warning := range result.Warnings {
		logger.Warn().Str("component", "config").Msg(warning)
	}
	config := result.Config

	decoder := NewDecoder(config.CacheSize)

	// Resolution happens exactly once; only the index moves afterward.
	var (
		seq *ImageSequence
		err error
	)
	switch {
	case flag.NArg() > 0:
		seq, err = ResolveInput(flag.Arg(0), config.SortMethod)
	case stdinIsPiped():
		var data []byte
		data, err = io.ReadAll(os.Stdin)
		if err == nil {
			seq, err = ResolveStream(data, decoder)
		}
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error().Str("component", "main").Err(err).Msg("cannot resolve input")
		os.Exit(1)
	}

	pipeline, err := NewPipeline()
	if err != nil {
		// Rendering degrades to clear-only; the viewer still runs.
		logger.Error().Str("component", "main").Err(err).Msg("shader setup failed")
	}

	session, err := NewViewerSession(seq, decoder, pipeline, config)
	if err != nil {
		logger.Error().Str("component", "main").Err(err).Msg("cannot load first image")
		os.Exit(1)
	}

	keys := NewKeybindingManager(config.Keybindings)
	mouse := NewMousebindingManager(config.Mousebindings, config.Mouse)
	session.SetInput(NewInputHandler(keys, mouse))

	ebiten.SetWindowTitle("grv")
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if config.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	if err := ebiten.RunGame(session); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error().Str("component", "main").Err(err).Msg("viewer terminated")
		os.Exit(1)
	}
}
