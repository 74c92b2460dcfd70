package jira

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// imageSuffixes are the extensions Filename accepts as-is.
var imageSuffixes = []string{".png", ".jpg", ".jpeg", ".gif"}

// ExtractImageSources scans HTML for <img ... src="..."> tags and returns the
// distinct sources in order of first appearance.
func ExtractImageSources(html string) []string {
	const srcAttr = `src="`

	var out []string
	seen := map[string]struct{}{}

	o := strings.Index(html, "<img")
	for o >= 0 {
		end := strings.Index(html[o:], ">")
		if end < 0 {
			break // unterminated tag
		}
		end += o

		if s := strings.Index(html[o:], srcAttr); s >= 0 && o+s < end {
			start := o + s + len(srcAttr)
			if q := strings.Index(html[start:], `"`); q > 0 {
				src := html[start : start+q]
				if _, dup := seen[src]; !dup {
					seen[src] = struct{}{}
					out = append(out, src)
				}
			}
		}

		next := strings.Index(html[end:], "<img")
		if next < 0 {
			break
		}
		o = end + next
	}
	return out
}

// Image is a lazily loaded image referenced from rendered HTML, identified by its src.
type Image struct {
	src    string
	client *Client

	mu   sync.Mutex
	data []byte
}

// NewImage returns an unloaded image handle bound to client.
func NewImage(src string, client *Client) *Image {
	return &Image{src: src, client: client}
}

// Src returns the image source as found in the HTML.
func (img *Image) Src() string { return img.src }

// Filename returns the last path segment of src. Sources without a .png, .jpg,
// .jpeg or .gif suffix (case-insensitive) get ".png" appended.
func (img *Image) Filename() string {
	name := img.src[strings.LastIndex(img.src, "/")+1:]
	lower := strings.ToLower(name)
	for _, sx := range imageSuffixes {
		if strings.HasSuffix(lower, sx) {
			return name
		}
	}
	return name + ".png" // most attachments are PNG
}

// Load downloads the image on first call and returns the cached bytes afterwards.
// A failed download is not cached.
func (img *Image) Load(ctx context.Context) ([]byte, error) {
	img.mu.Lock()
	defer img.mu.Unlock()

	if img.data != nil {
		return img.data, nil
	}
	if img.client == nil {
		return nil, ErrNoClient
	}
	data, err := img.client.LoadImage(ctx, img.src)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []byte{}
	}
	img.data = data
	return data, nil
}

// Data returns the downloaded bytes, or nil if the image was not loaded yet.
func (img *Image) Data() []byte {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.data
}

// Loaded reports whether the bytes were downloaded.
func (img *Image) Loaded() bool { return img.Data() != nil }

// Save writes the downloaded bytes to path.
func (img *Image) Save(path string) error {
	data := img.Data()
	if data == nil {
		return fmt.Errorf("save %s: %w", img.src, ErrImageNotLoaded)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", img.src, err)
	}
	return nil
}

// ImageSet is a set of images keyed by src, kept in first-seen order.
type ImageSet []*Image

// NewImageSet builds unloaded handles for the given distinct sources.
func NewImageSet(srcs []string, client *Client) ImageSet {
	set := make(ImageSet, 0, len(srcs))
	for _, src := range srcs {
		if set.Get(src) == nil {
			set = append(set, NewImage(src, client))
		}
	}
	return set
}

// Get returns the image with src, or nil.
func (s ImageSet) Get(src string) *Image {
	for _, img := range s {
		if img.src == src {
			return img
		}
	}
	return nil
}

// Sources returns the image sources in set order.
func (s ImageSet) Sources() []string {
	out := make([]string, len(s))
	for i, img := range s {
		out[i] = img.src
	}
	return out
}

// LoadAll downloads every image not yet loaded.
func (s ImageSet) LoadAll(ctx context.Context) error {
	for _, img := range s {
		if _, err := img.Load(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Bytes maps src to downloaded bytes for every loaded image.
func (s ImageSet) Bytes() map[string][]byte {
	out := make(map[string][]byte, len(s))
	for _, img := range s {
		if data := img.Data(); data != nil {
			out[img.src] = data
		}
	}
	return out
}
