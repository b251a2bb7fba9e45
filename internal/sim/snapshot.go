package sim

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed snapshot.schema.json
var snapshotSchemaJSON string

var snapshotSchema = jsonschema.MustCompileString("snapshot.schema.json", snapshotSchemaJSON)

// snapshot is the persisted form of the game. Stars is a pointer so a save
// without the field can be told apart from a save holding zero stars.
type snapshot struct {
	Floors    []Floor `json:"floors"`
	Stars     *int    `json:"stars,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

func encodeSnapshot(floors []Floor, stars int, timestampMs int64) ([]byte, error) {
	out := make([]Floor, len(floors))
	for i, f := range floors {
		out[i] = f.clone()
	}
	return json.Marshal(snapshot{Floors: out, Stars: &stars, Timestamp: timestampMs})
}

// decodeSnapshot parses and validates a save. Any error means the payload
// cannot be trusted.
func decodeSnapshot(raw []byte) (snapshot, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return snapshot{}, fmt.Errorf("parse save: %w", err)
	}
	if err := snapshotSchema.Validate(doc); err != nil {
		return snapshot{}, fmt.Errorf("validate save: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return snapshot{}, fmt.Errorf("decode save: %w", err)
	}
	return snap, nil
}
