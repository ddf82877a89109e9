// Package room tracks the backdrop a layout is arranged against.
//
// A background is either an uploaded image URL or one of the built-in room
// templates, never both: choosing one clears the other.
package room

import (
	"encoding/json"

	"github.com/matzehuels/roomkit/pkg/errors"
)

// BackgroundKey is the durable key holding the current background.
const BackgroundKey = "room-background"

// MaxPlaneWidth is the width of the backdrop plane for uploaded images.
const MaxPlaneWidth = 10.0

// Kind says where the background comes from.
type Kind string

// Background kinds. KindNone means no backdrop is shown.
const (
	KindNone     Kind = ""
	KindUploaded Kind = "uploaded"
	KindTemplate Kind = "template"
)

// Background is the current backdrop selection.
type Background struct {
	Kind       Kind   `json:"type"`
	ImageURL   string `json:"imageUrl,omitempty"`
	TemplateID string `json:"templateId,omitempty"`
}

// State holds the background selection.
type State struct {
	bg Background
}

// NewState returns a state with no background.
func NewState() *State { return &State{} }

// SetImageURL selects an uploaded image and clears any template.
func (s *State) SetImageURL(url string) error {
	if err := errors.ValidateImageURL(url); err != nil {
		return err
	}
	s.bg = Background{Kind: KindUploaded, ImageURL: url}
	return nil
}

// SetTemplateID selects a built-in template and clears any uploaded image.
// Unknown ids leave the state unchanged.
func (s *State) SetTemplateID(id string) error {
	if _, ok := Template(id); !ok {
		return errors.New(errors.ErrCodeTemplateNotFound, "unknown room template %q", id)
	}
	s.bg = Background{Kind: KindTemplate, TemplateID: id}
	return nil
}

// Clear removes the background.
func (s *State) Clear() { s.bg = Background{} }

// Background returns the current selection.
func (s *State) Background() Background { return s.bg }

// ResolveURL returns the image to show: the uploaded URL, the template's
// image, or "" when there is none.
func (s *State) ResolveURL() string {
	switch s.bg.Kind {
	case KindUploaded:
		return s.bg.ImageURL
	case KindTemplate:
		if t, ok := Template(s.bg.TemplateID); ok {
			return t.ImageURL
		}
	}
	return ""
}

// PlaneSize returns the backdrop plane dimensions. Templates use their
// preset size; uploaded images keep their aspect ratio at MaxPlaneWidth.
// imgW and imgH are ignored for templates and may be zero when unknown.
func (s *State) PlaneSize(imgW, imgH float64) [2]float64 {
	fallback := [2]float64{MaxPlaneWidth, MaxPlaneWidth * 0.625}
	switch s.bg.Kind {
	case KindUploaded:
		if imgW > 0 && imgH > 0 {
			return [2]float64{MaxPlaneWidth, MaxPlaneWidth / (imgW / imgH)}
		}
	case KindTemplate:
		if t, ok := Template(s.bg.TemplateID); ok && t.PlaneSize != [2]float64{} {
			return t.PlaneSize
		}
	}
	return fallback
}

// MarshalText encodes the background as compact JSON.
func (s *State) MarshalText() ([]byte, error) {
	return json.Marshal(s.bg)
}

// UnmarshalText restores a background from JSON. Unknown template ids and
// invalid image URLs are rejected and leave the state unchanged.
func (s *State) UnmarshalText(data []byte) error {
	var bg Background
	if err := json.Unmarshal(data, &bg); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode background")
	}
	switch bg.Kind {
	case KindNone:
		s.Clear()
		return nil
	case KindUploaded:
		return s.SetImageURL(bg.ImageURL)
	case KindTemplate:
		return s.SetTemplateID(bg.TemplateID)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown background type %q", bg.Kind)
}
