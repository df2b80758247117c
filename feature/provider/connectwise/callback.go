package connectwise

import (
	"github.com/goccy/go-json"
)

type callback struct {
	Action string `json:"Action"`
	Entity string `json:"Entity"`
}

// unwrapEntity returns the embedded entity of a callback, or payload unchanged.
func unwrapEntity(payload []byte) []byte {
	var cb callback
	if err := json.Unmarshal(payload, &cb); err != nil || cb.Entity == "" {
		return payload
	}
	if !json.Valid([]byte(cb.Entity)) {
		return payload
	}
	return []byte(cb.Entity)
}
