package landmark

// depthTable holds the anatomical depth of each landmark relative to the
// cheek plane. Positive values protrude toward the camera.
var depthTable = map[Type]float64{
	EyeLeft:           -0.020,
	EyeRight:          -0.020,
	LeftEyeInner:      -0.015,
	LeftEyeOuter:      -0.025,
	RightEyeInner:     -0.015,
	RightEyeOuter:     -0.025,
	LeftEyebrowInner:  0.010,
	LeftEyebrowOuter:  0.000,
	RightEyebrowInner: 0.010,
	RightEyebrowOuter: 0.000,
	Nose:              0.050,
	NoseTip:           0.060,
	NoseBridge:        0.030,
	NoseLeft:          0.020,
	NoseRight:         0.020,
	UpperLip:          0.020,
	LowerLip:          0.015,
	MouthLeft:         0.005,
	MouthRight:        0.005,
	MouthCenter:       0.018,
	ChinBottom:        0.010,
	ChinLeft:          0.000,
	ChinRight:         0.000,
	JawLeft:           -0.030,
	JawRight:          -0.030,
	CheekLeft:         0.005,
	CheekRight:        0.005,
	ForeheadCenter:    0.015,
	TempleLeft:        -0.020,
	TempleRight:       -0.020,
}

// Depth returns the anatomical depth for a landmark type.
// Types without an entry sit on the reference plane.
func Depth(t Type) float64 {
	return depthTable[t]
}
