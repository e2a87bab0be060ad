package channel

import "testing"

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		frame    string
		wantType string
		wantErr  bool
	}{
		{"pong literal", "pong", TypePong, false},
		{"pong with newline", "pong\n", TypePong, false},
		{"envelope", `{"type":"agent_started","data":{"agent_name":"cv_parser"}}`, "agent_started", false},
		{"missing data", `{"type":"connected"}`, TypeConnected, false},
		{"missing type", `{"data":{}}`, "", true},
		{"not json", `hello`, "", true},
		{"truncated", `{"type":"x"`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Decode([]byte(tt.frame))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode(%q) error = %v, wantErr %v", tt.frame, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if env.Type != tt.wantType {
				t.Errorf("Decode(%q).Type = %q, want %q", tt.frame, env.Type, tt.wantType)
			}
			if env.Data == nil {
				t.Errorf("Decode(%q).Data is nil", tt.frame)
			}
		})
	}
}

func TestEnvelopeAccessors(t *testing.T) {
	env, err := Decode([]byte(`{"type":"t","data":{
		"s":"text","n":3,"f":4.25,"ns":"7","b":true,"null":null,
		"list":["a",1,"b"],"objs":[{"k":1},"skip",{"k":2}]
	}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if got := env.Str("s"); got != "text" {
		t.Errorf("Str(s) = %q, want text", got)
	}
	if got := env.Str("n"); got != "3" {
		t.Errorf("Str(n) = %q, want 3", got)
	}
	if got := env.Str("missing"); got != "" {
		t.Errorf("Str(missing) = %q, want empty", got)
	}
	if n, ok := env.Int("n"); !ok || n != 3 {
		t.Errorf("Int(n) = %d, %v, want 3, true", n, ok)
	}
	if n, ok := env.Int("ns"); !ok || n != 7 {
		t.Errorf("Int(ns) = %d, %v, want 7, true", n, ok)
	}
	if f, ok := env.Float("f"); !ok || f != 4.25 {
		t.Errorf("Float(f) = %v, %v, want 4.25, true", f, ok)
	}
	if _, ok := env.Int("s"); ok {
		t.Error("Int(s) should fail for non-numeric text")
	}
	if env.Has("null") || !env.Has("b") {
		t.Error("Has() mismatch for null/present keys")
	}
	if got := env.Strings("list"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Strings(list) = %v, want [a b]", got)
	}
	if got := env.Objects("objs"); len(got) != 2 {
		t.Errorf("Objects(objs) = %d items, want 2", len(got))
	}
}

func TestEncodeRoundTripsType(t *testing.T) {
	data, err := Encode(Envelope{Type: TypeConnected})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(data) != `{"type":"connected","data":{}}` {
		t.Errorf("Encode() = %s", data)
	}
}
