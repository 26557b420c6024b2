package agent

import (
	"encoding/json"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Shape names where an unwrapped payload came from
type Shape string

const (
	// ShapeStructured is a JSON value found directly under response.result
	ShapeStructured Shape = "structured"
	// ShapeNestedString is response.result after decoding one or more JSON strings
	ShapeNestedString Shape = "nested-string"
	// ShapeRaw is $.result recovered from raw_response
	ShapeRaw Shape = "raw"
	// ShapeNone means nothing usable was found
	ShapeNone Shape = "none"
)

// maxDecodeDepth bounds how many JSON-in-string layers are peeled
const maxDecodeDepth = 3

// Payload is the unwrapped agent result
type Payload struct {
	Shape Shape
	Value any
}

// Object returns the payload as a JSON object
func (p Payload) Object() (map[string]any, bool) {
	obj, ok := p.Value.(map[string]any)
	return obj, ok && len(obj) > 0
}

// Unwrap extracts the agent output. response.result wins whenever it
// yields a non-empty value; raw_response is only consulted otherwise.
func Unwrap(resp *Response) Payload {
	if resp == nil {
		return Payload{Shape: ShapeNone}
	}

	if resp.Response != nil && len(resp.Response.Result) > 0 {
		var v any
		if err := json.Unmarshal(resp.Response.Result, &v); err == nil {
			if val, nested := unwrapValue(v); present(val) {
				shape := ShapeStructured
				if nested {
					shape = ShapeNestedString
				}
				return Payload{Shape: shape, Value: val}
			}
		}
	}

	if resp.RawResponse != "" {
		var raw any
		if err := json.Unmarshal([]byte(resp.RawResponse), &raw); err == nil {
			if inner, err := jsonpath.Get("$.result", raw); err == nil {
				if val, _ := unwrapValue(inner); present(val) {
					return Payload{Shape: ShapeRaw, Value: val}
				}
			}
		}
	}

	return Payload{Shape: ShapeNone}
}

// unwrapValue decodes JSON-encoded strings and follows "result" keys.
// The second return reports whether a string layer was involved.
func unwrapValue(v any) (any, bool) {
	nested := false
	decodes := 0
	for steps := 0; steps < 2*maxDecodeDepth+1; steps++ {
		switch x := v.(type) {
		case string:
			nested = true
			if decodes == maxDecodeDepth {
				return v, nested
			}
			var decoded any
			if err := json.Unmarshal([]byte(strings.TrimSpace(x)), &decoded); err != nil {
				return v, nested
			}
			decodes++
			v = decoded
		case map[string]any:
			inner, ok := x["result"]
			if !ok {
				return v, nested
			}
			v = inner
		default:
			return v, nested
		}
	}
	return v, nested
}

func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case map[string]any:
		return len(x) > 0
	case []any:
		return len(x) > 0
	}
	return true
}

// ResponseText returns the agent output as text for free-form mining
func ResponseText(resp *Response) string {
	p := Unwrap(resp)
	switch v := p.Value.(type) {
	case nil:
	case string:
		return v
	default:
		if data, err := json.Marshal(v); err == nil {
			return string(data)
		}
	}
	if resp != nil {
		return resp.RawResponse
	}
	return ""
}
