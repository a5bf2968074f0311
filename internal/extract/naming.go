package extract

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
)

// ClipName derives the artifact filename for one (asset, start, end) triple.
// The name is a pure function of its inputs so identical requests map to the
// same artifact and re-extraction can be skipped.
// Parameters:
//   - assetID: external source identifier.
//   - start: clip start in seconds.
//   - end: clip end in seconds.
// Returns:
//   - string: deterministic "<12 hex chars>.mp4" filename.
func ClipName(assetID string, start, end float64) string {
	key := fmt.Sprintf("%s_%s_%s", assetID, formatSeconds(start), formatSeconds(end))
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])[:12] + ".mp4"
}

// formatSeconds renders a second value without trailing zeros so 10, 10.0 and
// 10.00 produce the same key.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
