// Package gallery holds the session-local list of generated images and the
// Idle/Loading/Success/Error state machine that fills it.
package gallery

// GeneratedImage is one successful generation. It is never persisted.
type GeneratedImage struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Prompt    string `json:"prompt"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// Gallery is a prepend-only, most-recent-first list of images.
// It is not safe for concurrent use; Generator guards it.
type Gallery struct {
	images []GeneratedImage
}

// Prepend puts img at the head of the gallery.
func (g *Gallery) Prepend(img GeneratedImage) {
	g.images = append([]GeneratedImage{img}, g.images...)
}

// Len returns the number of images.
func (g *Gallery) Len() int {
	return len(g.images)
}

// Head returns the most recent image.
func (g *Gallery) Head() (GeneratedImage, bool) {
	if len(g.images) == 0 {
		return GeneratedImage{}, false
	}
	return g.images[0], true
}

// Images returns a copy of the images, most recent first.
func (g *Gallery) Images() []GeneratedImage {
	out := make([]GeneratedImage, len(g.images))
	copy(out, g.images)
	return out
}

// Find looks an image up by id.
func (g *Gallery) Find(id string) (GeneratedImage, bool) {
	for _, img := range g.images {
		if img.ID == id {
			return img, true
		}
	}
	return GeneratedImage{}, false
}
