package trials

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// #region hash

// TrialHash returns the deterministic content hash of a flat
// hyperparameter mapping. Go's JSON encoder sorts map keys, so the
// encoding is canonical for a given mapping.
func TrialHash(hyperparams map[string]any) (string, error) {
	encoded, err := json.Marshal(hyperparams)
	if err != nil {
		return "", fmt.Errorf("encode hyperparams: %w", err)
	}
	sum := md5.Sum(encoded)
	return hex.EncodeToString(sum[:]), nil
}

// #endregion hash
