package topology

import "errors"

// ErrInvalidConfig indicates a generator config that cannot produce a scene.
var ErrInvalidConfig = errors.New("topology: invalid config")

// ErrUnknownScene indicates a scene name missing from the registry.
var ErrUnknownScene = errors.New("topology: unknown scene")
