package channel

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// PongFrame is the bare heartbeat reply. It is the only inbound frame that is not JSON.
const PongFrame = "pong"

// Well-known envelope types handled outside the dispatch table.
const (
	TypeConnected = "connected"
	TypePong      = "pong"
)

// Envelope is one inbound event: {"type": "...", "data": {...}}.
type Envelope struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

var errMissingType = errors.New("envelope has no type")

// Decode parses a text frame. The literal "pong" decodes to a pong envelope.
func Decode(frame []byte) (Envelope, error) {
	trimmed := bytes.TrimSpace(frame)
	if string(trimmed) == PongFrame {
		return Envelope{Type: TypePong, Data: map[string]any{}}, nil
	}

	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to decode frame: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, errMissingType
	}
	if env.Data == nil {
		env.Data = map[string]any{}
	}
	return env, nil
}

// Encode serializes an envelope for the wire.
func Encode(env Envelope) ([]byte, error) {
	if env.Data == nil {
		env.Data = map[string]any{}
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s envelope: %w", env.Type, err)
	}
	return data, nil
}

// Has reports whether key is present and non-null.
func (e Envelope) Has(key string) bool {
	v, ok := e.Data[key]
	return ok && v != nil
}

// Value returns the raw value for key.
func (e Envelope) Value(key string) any {
	return e.Data[key]
}

// Str returns data[key] as a string. Numbers and booleans are formatted; anything else is "".
func (e Envelope) Str(key string) string {
	switch v := e.Data[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	}
	return ""
}

// Float returns data[key] as a number.
func (e Envelope) Float(key string) (float64, bool) {
	switch v := e.Data[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// Int returns data[key] truncated to an int.
func (e Envelope) Int(key string) (int, bool) {
	f, ok := e.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Strings returns data[key] as a list of strings, skipping non-string elements.
func (e Envelope) Strings(key string) []string {
	list, ok := e.Data[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Objects returns data[key] as a list of JSON objects, skipping anything else.
func (e Envelope) Objects(key string) []map[string]any {
	list, ok := e.Data[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
