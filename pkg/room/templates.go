package room

import "github.com/matzehuels/roomkit/pkg/geom"

// RoomTemplate is a preset room backdrop with its scene defaults.
type RoomTemplate struct {
	ID                     string     `json:"id"`
	Name                   string     `json:"name"`
	ImageURL               string     `json:"imageUrl"`
	DefaultScale           float64    `json:"defaultScale,omitempty"`
	PlaneSize              [2]float64 `json:"defaultPlaneSize"`
	CameraPosition         geom.Vec3  `json:"defaultCameraPosition"`
	GridSize               float64    `json:"gridSize,omitempty"`
	AmbientLight           float64    `json:"ambientLightIntensity,omitempty"`
	FurnitureStartPosition geom.Vec3  `json:"furnitureStartPosition"`
}

var builtin = []RoomTemplate{
	{
		ID:                     "living-room-1",
		Name:                   "Living Room",
		ImageURL:               "/assets/templates/OIP.jpg",
		DefaultScale:           1,
		PlaneSize:              [2]float64{12, 7},
		CameraPosition:         geom.Vec3{0, 2, 10},
		GridSize:               0.5,
		AmbientLight:           0.6,
		FurnitureStartPosition: geom.Origin,
	},
}

// Templates returns the built-in templates.
func Templates() []RoomTemplate {
	out := make([]RoomTemplate, len(builtin))
	copy(out, builtin)
	return out
}

// Template looks up a built-in template by id.
func Template(id string) (RoomTemplate, bool) {
	for _, t := range builtin {
		if t.ID == id {
			return t, true
		}
	}
	return RoomTemplate{}, false
}
