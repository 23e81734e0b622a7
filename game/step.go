package game

// Intent clamps a raw input vector: inside the deadzone it is dropped,
// longer than one it is normalized
func Intent(v Vec) Vec {
	mag := v.Len()
	if mag <= Deadzone {
		return Vec{}
	}
	if mag > 1 {
		return v.Scale(1 / mag)
	}
	return v
}

// Displacement converts an intent into the movement of one input frame
func Displacement(intent Vec, speed, modifier float64) Vec {
	return Intent(intent).Scale(speed * modifier / InputHz)
}
