package processor

import (
	"fmt"
	"strings"
	"time"

	"github.com/heyjunin/maaw/pkg/errors"
)

const (
	// DefaultQuality is the JPEG quality of processed images.
	DefaultQuality = 95
	// DefaultMaxImages bounds a single submission.
	DefaultMaxImages = 50
	// DefaultLocation is used when a submission names no GPS location.
	DefaultLocation = "usa"
)

// Location is one of the GPS regions a submission may be tagged with.
type Location struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

var locations = map[string]Location{
	"usa":       {Name: "usa", Country: "United States", Latitude: 37.7749, Longitude: -122.4194},
	"germany":   {Name: "germany", Country: "Germany", Latitude: 52.5200, Longitude: 13.4050},
	"canada":    {Name: "canada", Country: "Canada", Latitude: 43.6532, Longitude: -79.3832},
	"australia": {Name: "australia", Country: "Australia", Latitude: -33.8688, Longitude: 151.2093},
	"france":    {Name: "france", Country: "France", Latitude: 48.8566, Longitude: 2.3522},
}

// LookupLocation resolves a GPS location name. An empty name is the default.
func LookupLocation(name string) (Location, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultLocation
	}
	loc, ok := locations[key]
	if !ok {
		return Location{}, errors.FromCode(errors.ValidationError, errors.ErrInvalidGPSLocation, name)
	}
	return loc, nil
}

// Options configures a Processor.
type Options struct {
	// Quality of the re-encoded JPEG images, 1 to 100.
	Quality int
	// MaxImages rejects larger submissions.
	MaxImages int
	// Now names the images. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.MaxImages <= 0 {
		o.MaxImages = DefaultMaxImages
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Validate checks a submission before any image is touched.
func (s Submission) Validate(maxImages int) error {
	if strings.TrimSpace(s.Text) == "" {
		return errors.FromCode(errors.ValidationError, errors.ErrMissingText, "")
	}
	if strings.TrimSpace(s.Token) == "" {
		return errors.FromCode(errors.ValidationError, errors.ErrMissingToken, "")
	}
	if len(s.Images) == 0 {
		return errors.FromCode(errors.ValidationError, errors.ErrNoImages, "")
	}
	if maxImages > 0 && len(s.Images) > maxImages {
		return errors.FromCode(errors.ValidationError, errors.ErrTooManyImages,
			fmt.Sprintf("%d images, at most %d", len(s.Images), maxImages))
	}
	if _, err := LookupLocation(s.GPSLocation); err != nil {
		return err
	}
	return nil
}
