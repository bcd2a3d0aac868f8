package extract

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

// baseConfidence is the floor for any field that was found.
const baseConfidence = 0.85

// fieldConfidence is a display heuristic, not a probability: a found field scores
// 0.85 plus a stable per-name offset in [0, 0.14]. Missing fields score 0.
func fieldConfidence(field, value string) float64 {
	if value == "" {
		return 0
	}
	sum := md5.Sum([]byte(field))
	prefix := hex.EncodeToString(sum[:])[:8]
	n, err := strconv.ParseUint(prefix, 16, 32)
	if err != nil {
		return baseConfidence
	}
	score := baseConfidence + float64(n%15)/100
	if score > 1.0 {
		score = 1.0
	}
	return score
}
