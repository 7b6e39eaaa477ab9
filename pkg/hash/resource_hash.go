package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// metadataFields never take part in a spec digest.
var metadataFields = []string{
	"id",
	"name",
	"is_default",
	"spec_hash",
	"create_time",
	"update_time",
}

// CalculateResourceHash returns a stable digest of the business attributes of obj.
// Bookkeeping columns (ids, timestamps, default flags, the stored hash itself) are ignored,
// so two records describing the same infrastructure hash equally.
func CalculateResourceHash(obj interface{}) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}

	var objMap map[string]interface{}
	if err := json.Unmarshal(data, &objMap); err != nil {
		return "", err
	}
	for _, field := range metadataFields {
		delete(objMap, field)
	}

	// encoding/json sorts map keys, so re-marshalling yields a canonical form
	cleanData, err := json.Marshal(objMap)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(cleanData)
	return hex.EncodeToString(sum[:]), nil
}

// ShortID derives a deterministic identifier of at most n characters from parts.
// Backends with tight naming limits (proxmox SDN vnets allow eight characters) use it
// to map long resource names onto valid ids.
func ShortID(prefix string, n int, parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "/")))
	id := prefix + hex.EncodeToString(sum[:])
	if n > 0 && len(id) > n {
		id = id[:n]
	}
	return id
}
