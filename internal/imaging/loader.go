package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache provides thread-safe caching of decoded images keyed by path.
//
// The MCP server often runs several tools against the same scan (detect,
// then overlay, then align), so decoded images are kept until evicted.
// Frames are converted from the cached image on every call and are never
// shared between callers.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// LoadFrame returns the cached image at path as a freshly built Frame.
func (c *ImageCache) LoadFrame(path string) (*Frame, error) {
	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// Evict removes a specific image from the cache by its path.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Len reports the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// DecodeFile reads and decodes an image file without caching.
func DecodeFile(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// LoadFrame decodes the image at path into a Frame without caching.
func LoadFrame(path string) (*Frame, error) {
	img, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// SaveImage encodes img to path. The format is chosen from the extension
// (png, jpg/jpeg, gif, tif/tiff, bmp). Missing parent directories are created.
func SaveImage(img image.Image, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to encode image %s: %w", path, err)
	}
	return nil
}

// SaveFrame encodes f to path, see SaveImage.
func SaveFrame(f *Frame, path string) error {
	return SaveImage(f.ToImage(), path)
}

// FrameInfo contains metadata about an image file as seen by the detector.
type FrameInfo struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Channels      int    `json:"channels"`
	Format        string `json:"format"`
	ColorDepth    string `json:"color_depth"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// LoadFrameInfo loads an image through the cache and describes it.
//
// The format is determined by file extension. Channels is the channel count
// of the Frame the detector will see (1 for gray images, otherwise 3).
func LoadFrameInfo(cache *ImageCache, path string) (*FrameInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	case ".tif", ".tiff":
		format = "tiff"
	case ".bmp":
		format = "bmp"
	}

	channels := 3
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.Gray:
		channels = 1
	case *image.Gray16:
		channels = 1
		colorDepth = "16-bit"
	case *image.RGBA64, *image.NRGBA64:
		colorDepth = "16-bit"
	}

	bounds := img.Bounds()
	return &FrameInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Channels:      channels,
		Format:        format,
		ColorDepth:    colorDepth,
		FileSizeBytes: stat.Size(),
	}, nil
}
