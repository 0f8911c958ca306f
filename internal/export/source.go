package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
)

// ErrUnsupportedSource is returned for image references the loader cannot
// resolve locally, such as remote URLs.
var ErrUnsupportedSource = errors.New("unsupported image source")

// SourceLoader resolves an element or background image reference.
type SourceLoader interface {
	Load(source string) (image.Image, error)
}

// FileLoader loads data URLs and file paths. Relative paths are resolved
// against Dir.
type FileLoader struct {
	Dir string
}

// Load implements SourceLoader.
func (l FileLoader) Load(source string) (image.Image, error) {
	switch {
	case strings.HasPrefix(source, "data:"):
		return decodeDataURL(source)
	case strings.HasPrefix(source, "file://"):
		u, err := url.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", source, err)
		}
		return loadFile(u.Path)
	case strings.Contains(source, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source)
	}
	path := source
	if !filepath.IsAbs(path) && l.Dir != "" {
		path = filepath.Join(l.Dir, path)
	}
	return loadFile(path)
}

func loadFile(path string) (image.Image, error) {
	img, err := gg.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	return img, nil
}

// decodeDataURL handles data:image/<type>;base64,<payload>.
func decodeDataURL(source string) (image.Image, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(source, "data:"), ",")
	if !ok || !strings.HasPrefix(meta, "image/") || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: malformed data URL", ErrUnsupportedSource)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URL: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode data URL image: %w", err)
	}
	return img, nil
}

// cachingLoader memoizes a loader for the duration of one render.
type cachingLoader struct {
	next  SourceLoader
	cache map[string]image.Image
}

func (c *cachingLoader) Load(source string) (image.Image, error) {
	if img, ok := c.cache[source]; ok {
		return img, nil
	}
	img, err := c.next.Load(source)
	if err != nil {
		return nil, err
	}
	c.cache[source] = img
	return img, nil
}
