package storage

import (
	"strings"

	"github.com/diagnosis/sindhu-tours/internal/domain"
)

const (
	TourImagesBucket = "tour-images"
	DefaultThumbnail = "/assets/tour-thumbnail/default.jpg"
)

// Images resolves stored object paths to public URLs.
type Images struct {
	base string
}

func NewImages(publicBaseURL string) *Images {
	return &Images{base: strings.TrimRight(publicBaseURL, "/")}
}

// PublicURL maps a stored path to a fetchable URL. Absolute http(s) URLs are
// returned as-is and an empty path gets the default thumbnail.
func (i *Images) PublicURL(stored string) string {
	stored = strings.TrimSpace(stored)
	switch {
	case stored == "":
		return DefaultThumbnail
	case strings.HasPrefix(stored, "http://"), strings.HasPrefix(stored, "https://"):
		return stored
	default:
		return i.base + "/" + TourImagesBucket + "/" + strings.TrimLeft(stored, "/")
	}
}

// DecorateTour fills the URL fields of t and its destination.
func (i *Images) DecorateTour(t *domain.Tour) {
	t.ImageURLs = make([]string, 0, len(t.Images))
	for _, img := range t.Images {
		t.ImageURLs = append(t.ImageURLs, i.PublicURL(img))
	}
	t.CoverURL = i.PublicURL(t.CoverImage())
	if t.Destination != nil {
		i.DecorateDestination(t.Destination)
	}
}

func (i *Images) DecorateDestination(d *domain.Destination) {
	d.ImageURL = i.PublicURL(d.Image)
}

func (i *Images) DecorateSnapshot(s *domain.TourSnapshot) {
	if s != nil {
		s.ImageURL = i.PublicURL(s.Image)
	}
}
