package model

// FeatureVector is one profile's encoded numeric representation.
type FeatureVector []float64

// FeatureMatrix is the encoded population: one row per successfully encoded
// profile, aligned with ProfileIDs. Rows are owned by the encoder and must
// not be mutated by consumers; the clustering engine scales a copy.
type FeatureMatrix struct {
	ProfileIDs []string
	Columns    []string
	Rows       []FeatureVector
}

// Len returns the number of encoded profiles.
func (m FeatureMatrix) Len() int {
	return len(m.Rows)
}
