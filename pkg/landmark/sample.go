package landmark

// Sample returns a symmetric, frontal 30-point face covering every named
// type. It is used for demos and as a fixture.
func Sample() []Landmark {
	return []Landmark{
		{EyeLeft, 0.35, 0.40},
		{EyeRight, 0.65, 0.40},
		{Nose, 0.50, 0.55},
		{MouthLeft, 0.40, 0.70},
		{MouthRight, 0.60, 0.70},
		{ChinBottom, 0.50, 0.90},
		{LeftEyebrowInner, 0.43, 0.33},
		{LeftEyebrowOuter, 0.28, 0.33},
		{RightEyebrowInner, 0.57, 0.33},
		{RightEyebrowOuter, 0.72, 0.33},
		{LeftEyeInner, 0.41, 0.40},
		{LeftEyeOuter, 0.29, 0.40},
		{RightEyeInner, 0.59, 0.40},
		{RightEyeOuter, 0.71, 0.40},
		{NoseBridge, 0.50, 0.42},
		{NoseTip, 0.50, 0.58},
		{NoseLeft, 0.45, 0.57},
		{NoseRight, 0.55, 0.57},
		{UpperLip, 0.50, 0.67},
		{LowerLip, 0.50, 0.74},
		{MouthCenter, 0.50, 0.705},
		{ChinLeft, 0.42, 0.86},
		{ChinRight, 0.58, 0.86},
		{JawLeft, 0.25, 0.75},
		{JawRight, 0.75, 0.75},
		{CheekLeft, 0.28, 0.58},
		{CheekRight, 0.72, 0.58},
		{ForeheadCenter, 0.50, 0.20},
		{TempleLeft, 0.22, 0.30},
		{TempleRight, 0.78, 0.30},
	}
}
