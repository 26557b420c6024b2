package agent

import (
	"encoding/json"
	"testing"
)

func resultOf(t *testing.T, v any) *Result {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return &Result{Result: data}
}

func TestUnwrap_Shapes(t *testing.T) {
	report := map[string]any{"report_date": "2025-02-26"}
	reportJSON, _ := json.Marshal(report)
	doubled, _ := json.Marshal(string(reportJSON))

	tests := []struct {
		name      string
		resp      *Response
		wantShape Shape
		wantDate  string
	}{
		{
			name:      "structured object",
			resp:      &Response{Success: true, Response: resultOf(t, report)},
			wantShape: ShapeStructured,
			wantDate:  "2025-02-26",
		},
		{
			name:      "result key followed",
			resp:      &Response{Success: true, Response: resultOf(t, map[string]any{"result": report})},
			wantShape: ShapeStructured,
			wantDate:  "2025-02-26",
		},
		{
			name:      "json string",
			resp:      &Response{Success: true, Response: resultOf(t, string(reportJSON))},
			wantShape: ShapeNestedString,
			wantDate:  "2025-02-26",
		},
		{
			name:      "triple encoded",
			resp:      &Response{Success: true, Response: resultOf(t, string(doubled))},
			wantShape: ShapeNestedString,
			wantDate:  "2025-02-26",
		},
		{
			name:      "result string inside object",
			resp:      &Response{Success: true, Response: resultOf(t, map[string]any{"result": string(reportJSON)})},
			wantShape: ShapeNestedString,
			wantDate:  "2025-02-26",
		},
		{
			name: "raw fallback when primary empty",
			resp: &Response{
				Success:     true,
				Response:    resultOf(t, map[string]any{}),
				RawResponse: `{"result": "{\"report_date\": \"2025-03-01\"}"}`,
			},
			wantShape: ShapeRaw,
			wantDate:  "2025-03-01",
		},
		{
			name: "primary wins over raw",
			resp: &Response{
				Success:     true,
				Response:    resultOf(t, report),
				RawResponse: `{"result": {"report_date": "1999-01-01"}}`,
			},
			wantShape: ShapeStructured,
			wantDate:  "2025-02-26",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Unwrap(tt.resp)
			if p.Shape != tt.wantShape {
				t.Errorf("Expected shape %s, got %s", tt.wantShape, p.Shape)
			}
			obj, ok := p.Object()
			if !ok {
				t.Fatalf("Expected object payload, got %#v", p.Value)
			}
			if obj["report_date"] != tt.wantDate {
				t.Errorf("Expected date %s, got %v", tt.wantDate, obj["report_date"])
			}
		})
	}
}

func TestUnwrap_Nothing(t *testing.T) {
	tests := []struct {
		name string
		resp *Response
	}{
		{"nil", nil},
		{"empty", &Response{Success: true}},
		{"empty object no raw", &Response{Success: true, Response: resultOf(t, map[string]any{})}},
		{"raw without result", &Response{Success: true, RawResponse: `{"status": "ok"}`}},
		{"raw not json", &Response{Success: true, RawResponse: `plain text`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if p := Unwrap(tt.resp); p.Shape != ShapeNone {
				t.Errorf("Expected none, got %s (%#v)", p.Shape, p.Value)
			}
		})
	}
}

func TestUnwrap_ProseIsNotObject(t *testing.T) {
	p := Unwrap(TextResult("Sure, here are the holdings: [1]"))

	if p.Shape != ShapeNestedString {
		t.Errorf("Expected nested-string, got %s", p.Shape)
	}
	if _, ok := p.Object(); ok {
		t.Error("Expected prose not to unwrap into an object")
	}
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		name string
		resp *Response
		want string
	}{
		{"plain text", TextResult("here: [1,2]"), "here: [1,2]"},
		{"structured array", &Response{Success: true, Response: resultOf(t, []any{"a"})}, `["a"]`},
		{"raw only", &Response{Success: true, RawResponse: "found [1]"}, "found [1]"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResponseText(tt.resp); got != tt.want {
				t.Errorf("ResponseText() = %q, expected %q", got, tt.want)
			}
		})
	}
}
