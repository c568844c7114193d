package main

import "errors"

// Failure taxonomy. Resolution and first-decode errors terminate startup;
// shader and texture errors degrade rendering to clear-only without
// terminating the process.
var (
	ErrEmptyDirectory = errors.New("no images in directory")
	ErrInvalidPath    = errors.New("invalid path")
	ErrLoadFailed     = errors.New("image load failed")
	ErrShader         = errors.New("shader compilation failed")
	ErrTexture        = errors.New("texture creation failed")
)
