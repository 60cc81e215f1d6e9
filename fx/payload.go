package fx

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Payload is the option map of an effect request
// Values arrive as JSON scalars or as strings from key=value input; getters accept both
type Payload map[string]any

// Common option keys
const (
	KeyUsers  = "users"
	KeySender = "sender"
	KeyLocal  = "local"
	KeyAudio  = "audio"
	KeyVolume = "volume"
)

// Has reports whether key is set to a non-nil value
func (p Payload) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// Number returns key as a float when it holds a number or numeric string
// NaN and infinities are rejected so they fall back to defaults like any malformed value
func (p Payload) Number(key string) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch v := p[key].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		f, err = v.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Float returns key when present and numeric, def otherwise; zero is kept
func (p Payload) Float(key string, def float64) float64 {
	if f, ok := p.Number(key); ok {
		return f
	}
	return def
}

// Or returns key when numeric and non-zero, def otherwise
func (p Payload) Or(key string, def float64) float64 {
	if f, ok := p.Number(key); ok && f != 0 {
		return f
	}
	return def
}

// Int is Or truncated to an integer
func (p Payload) Int(key string, def int) int {
	return int(p.Or(key, float64(def)))
}

// String returns key as a non-empty string, def otherwise
func (p Payload) String(key, def string) string {
	switch v := p[key].(type) {
	case string:
		if v != "" {
			return v
		}
	case nil:
	case float64, int, bool:
		return fmt.Sprint(v)
	}
	return def
}

// Bool returns key as a boolean; ok is false when unset or not boolean
func (p Payload) Bool(key string) (value, ok bool) {
	switch v := p[key].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	}
	return false, false
}

// Strings returns key as a list; a string value is split on commas
func (p Payload) Strings(key string) []string {
	switch v := p[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// With returns a copy of p with key set to value
func (p Payload) With(key string, value any) Payload {
	out := p.Clone()
	out[key] = value
	return out
}

// Clone returns a shallow copy; never nil
func (p Payload) Clone() Payload {
	out := make(Payload, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Packet is the wire form of an effect request: {"action": ..., "payload": {...}}
type Packet struct {
	Action  string  `json:"action"`
	Payload Payload `json:"payload"`
}

// EncodePacket marshals an effect request
func EncodePacket(action Action, payload Payload) ([]byte, error) {
	if payload == nil {
		payload = Payload{}
	}
	data, err := json.Marshal(Packet{Action: action.String(), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode %s packet: %w", action, err)
	}
	return data, nil
}

// DecodePacket unmarshals an effect request; the action name is not validated
func DecodePacket(data []byte) (Packet, error) {
	var pkt Packet
	if err := json.Unmarshal(data, &pkt); err != nil {
		return Packet{}, fmt.Errorf("decode packet: %w", err)
	}
	if pkt.Payload == nil {
		pkt.Payload = Payload{}
	}
	return pkt, nil
}

// ParseOptions builds a payload from key=value arguments
// Values stay strings; "users" may list several names separated by commas
func ParseOptions(args []string) (Payload, error) {
	p := make(Payload, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("option %q: want key=value", arg)
		}
		p[k] = v
	}
	return p, nil
}
