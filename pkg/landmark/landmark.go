// Package landmark defines the normalized 2D facial keypoints produced by an
// external face detector.
package landmark

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned when parsing a landmark type name fails.
var ErrUnknownType = errors.New("unknown landmark type")

// Type identifies a named facial point.
type Type uint8

// Landmark type constants.
const (
	Unknown Type = iota
	EyeLeft
	EyeRight
	Nose
	MouthLeft
	MouthRight
	ChinBottom
	LeftEyebrowInner
	LeftEyebrowOuter
	RightEyebrowInner
	RightEyebrowOuter
	LeftEyeInner
	LeftEyeOuter
	RightEyeInner
	RightEyeOuter
	NoseBridge
	NoseTip
	NoseLeft
	NoseRight
	UpperLip
	LowerLip
	MouthCenter
	ChinLeft
	ChinRight
	JawLeft
	JawRight
	CheekLeft
	CheekRight
	ForeheadCenter
	TempleLeft
	TempleRight

	typeCount
)

var typeNames = [typeCount]string{
	Unknown:           "unknown",
	EyeLeft:           "eyeLeft",
	EyeRight:          "eyeRight",
	Nose:              "nose",
	MouthLeft:         "mouthLeft",
	MouthRight:        "mouthRight",
	ChinBottom:        "chinBottom",
	LeftEyebrowInner:  "leftEyebrowInner",
	LeftEyebrowOuter:  "leftEyebrowOuter",
	RightEyebrowInner: "rightEyebrowInner",
	RightEyebrowOuter: "rightEyebrowOuter",
	LeftEyeInner:      "leftEyeInner",
	LeftEyeOuter:      "leftEyeOuter",
	RightEyeInner:     "rightEyeInner",
	RightEyeOuter:     "rightEyeOuter",
	NoseBridge:        "noseBridge",
	NoseTip:           "noseTip",
	NoseLeft:          "noseLeft",
	NoseRight:         "noseRight",
	UpperLip:          "upperLip",
	LowerLip:          "lowerLip",
	MouthCenter:       "mouthCenter",
	ChinLeft:          "chinLeft",
	ChinRight:         "chinRight",
	JawLeft:           "jawLeft",
	JawRight:          "jawRight",
	CheekLeft:         "cheekLeft",
	CheekRight:        "cheekRight",
	ForeheadCenter:    "foreheadCenter",
	TempleLeft:        "templeLeft",
	TempleRight:       "templeRight",
}

// Required lists the types every landmark set must contain.
var Required = []Type{EyeLeft, EyeRight, Nose, MouthLeft, MouthRight}

// String returns the camelCase name used by detectors and landmark files.
func (t Type) String() string {
	if t < typeCount {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// ParseType returns the type with the given name.
func ParseType(name string) (Type, error) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// AllTypes returns every named type, excluding Unknown.
func AllTypes() []Type {
	types := make([]Type, 0, typeCount-1)
	for t := EyeLeft; t < typeCount; t++ {
		types = append(types, t)
	}
	return types
}

// Landmark is a named facial point in normalized image coordinates.
// X grows to the right, Y grows downward; both lie in [0,1].
type Landmark struct {
	Type Type    `yaml:"type" json:"type"`
	X    float64 `yaml:"x" json:"x"`
	Y    float64 `yaml:"y" json:"y"`
}

// InRange reports whether both coordinates lie in [0,1].
// NaN coordinates are out of range.
func (l Landmark) InRange() bool {
	return l.X >= 0 && l.X <= 1 && l.Y >= 0 && l.Y <= 1
}

// Find returns the first landmark of the given type.
func Find(landmarks []Landmark, t Type) (Landmark, bool) {
	for _, l := range landmarks {
		if l.Type == t {
			return l, true
		}
	}
	return Landmark{}, false
}

// Missing returns the required types absent from landmarks.
func Missing(landmarks []Landmark) []Type {
	present := make(map[Type]bool, len(landmarks))
	for _, l := range landmarks {
		present[l.Type] = true
	}
	var missing []Type
	for _, t := range Required {
		if !present[t] {
			missing = append(missing, t)
		}
	}
	return missing
}
