package render

import (
	"image"
	"sync"
)

var (
	imagesMu sync.RWMutex
	images   = map[string]image.Image{}
)

// RegisterImage stores a decoded image by key.
func RegisterImage(key string, img image.Image) {
	if key == "" || img == nil {
		return
	}
	imagesMu.Lock()
	images[key] = img
	imagesMu.Unlock()
}

// GetImage returns a cached image by key.
func GetImage(key string) image.Image {
	if key == "" {
		return nil
	}
	imagesMu.RLock()
	defer imagesMu.RUnlock()
	return images[key]
}

// ForgetImage drops a cached image so the next load reads it again.
func ForgetImage(key string) {
	imagesMu.Lock()
	delete(images, key)
	imagesMu.Unlock()
}
