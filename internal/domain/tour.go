package domain

import (
	"strings"
	"time"

	"github.com/diagnosis/sindhu-tours/internal/utils"
	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

type Destination struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Tour struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	DestinationID int64     `json:"destination_id"`
	Description   string    `json:"description"`
	PickupPoint   string    `json:"pickup_point"`
	Duration      int       `json:"duration"`
	Services      []string  `json:"services"`
	MaxPeople     int       `json:"max_people"`
	Price         Money     `json:"price"`
	Date          string    `json:"date"`
	Images        []string  `json:"images"`
	CreatedBy     uuid.UUID `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Destination *Destination `json:"destination,omitempty"`
	ImageURLs   []string     `json:"image_urls,omitempty"`
	CoverURL    string       `json:"cover_url,omitempty"`
}

// DestinationName is empty when the destination was not joined.
func (t *Tour) DestinationName() string {
	if t.Destination == nil {
		return ""
	}
	return t.Destination.Name
}

// CoverImage is the first stored image path, or "".
func (t *Tour) CoverImage() string {
	if len(t.Images) == 0 {
		return ""
	}
	return t.Images[0]
}

type TourInput struct {
	Name          string   `json:"name" validate:"required,max=200"`
	DestinationID int64    `json:"destination_id" validate:"required,gt=0"`
	Description   string   `json:"description" validate:"required"`
	PickupPoint   string   `json:"pickup_point" validate:"required"`
	Duration      int      `json:"duration" validate:"gte=1"`
	Services      []string `json:"services"`
	MaxPeople     int      `json:"max_people" validate:"gte=1"`
	Price         Money    `json:"price" validate:"gte=0"`
	Date          string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Images        []string `json:"images" validate:"omitempty,dive,required"`
}

// Normalize trims text fields, cleans the tag list and defaults the date to
// today.
func (in *TourInput) Normalize(now time.Time) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.PickupPoint = strings.TrimSpace(in.PickupPoint)
	in.Services = utils.NormalizeTags(in.Services)
	in.Date = strings.TrimSpace(in.Date)
	if in.Date == "" {
		in.Date = now.Format(DateLayout)
	}
	images := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	in.Images = images
}

// TourPatch edits a tour in place. The destination is fixed at creation.
type TourPatch struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,min=1"`
	MaxPeople   *int    `json:"max_people" validate:"omitnil,gte=1"`
	Date        *string `json:"date" validate:"omitnil,datetime=2006-01-02"`
	Price       *Money  `json:"price" validate:"omitnil,gte=0"`
}

func (p *TourPatch) Normalize() {
	if p.Name != nil {
		v := strings.TrimSpace(*p.Name)
		p.Name = &v
	}
	if p.Description != nil {
		v := strings.TrimSpace(*p.Description)
		p.Description = &v
	}
	if p.Date != nil {
		v := strings.TrimSpace(*p.Date)
		p.Date = &v
	}
}

func (p *TourPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.MaxPeople == nil && p.Date == nil && p.Price == nil
}

// Apply returns a copy of t with the patch applied.
func (p *TourPatch) Apply(t Tour) Tour {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.MaxPeople != nil {
		t.MaxPeople = *p.MaxPeople
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Price != nil {
		t.Price = *p.Price
	}
	return t
}

// FilterByDestination keeps the tours whose destination name contains q,
// ignoring case. An empty q returns the input unchanged. Tours without a
// joined destination never match a non-empty q.
func FilterByDestination(tours []Tour, q string) []Tour {
	if q == "" {
		return tours
	}
	out := make([]Tour, 0, len(tours))
	for _, t := range tours {
		if t.Destination != nil && utils.ContainsFold(t.Destination.Name, q) {
			out = append(out, t)
		}
	}
	return out
}
