// Package lighting maps a coarse lighting analysis of the source photo onto
// a themed key light, shadow set and atmosphere.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/facestyle/pkg/math"
)

// SunDirection converts longitude/latitude angles in degrees to a unit
// direction pointing toward the light. Longitude rotates around the Y axis
// with 0 facing the viewer (+Z); latitude is elevation above the horizon.
func SunDirection(longitude, latitude float64) math.Vec3 {
	lonRad := longitude * gomath.Pi / 180.0
	latRad := latitude * gomath.Pi / 180.0

	return math.Vec3{
		X: gomath.Cos(latRad) * gomath.Sin(lonRad),
		Y: gomath.Sin(latRad),
		Z: gomath.Cos(latRad) * gomath.Cos(lonRad),
	}
}
