package util

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// HashFloats returns a stable key for a feature vector.
func HashFloats(fs []float64) string {
	bs, _ := json.Marshal(fs)
	hash := sha256.Sum256(bs)
	return hex.EncodeToString(hash[:])
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func CopyFloats(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
