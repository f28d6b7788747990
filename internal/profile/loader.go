package profile

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a profile YAML file. Unknown fields fail immediately so
// that a typo like "targett_yield" cannot silently score with the
// default.
func Load(path string) (*CustomerProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML profile content with strict field checking.
func Parse(data []byte) (*CustomerProfile, error) {
	var p CustomerProfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &p, nil
}

// FromJSON decodes a profile from an API request body. JSON input is
// not strict: API clients may send extra envelope fields.
func FromJSON(data []byte) (*CustomerProfile, error) {
	var p CustomerProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, nil
}

// Hash returns the SHA256 of the profile's canonical JSON form, used
// as a cache key component. Struct field order makes it reproducible.
func Hash(p *CustomerProfile) (string, error) {
	jsonBytes, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
