package json

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestMarshalRoundTrip(t *testing.T) {
	in := map[string]interface{}{
		"name":  "widget",
		"count": 42,
		"price": 9.99,
	}

	data, err := Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	var out map[string]interface{}
	if err := Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out["name"] != "widget" {
		t.Errorf("name = %v", out["name"])
	}
}

func TestDecoderUsesNumber(t *testing.T) {
	dec := GetDecoder(strings.NewReader(`{"id": 9007199254740993}`))
	defer PutDecoder(dec)

	var out map[string]interface{}
	if err := dec.Decode(&out); err != nil {
		t.Fatal(err)
	}

	num, ok := out["id"].(json.Number)
	if !ok {
		t.Fatalf("id decoded as %T, want json.Number", out["id"])
	}
	if num.String() != "9007199254740993" {
		t.Errorf("id = %s, lost precision", num)
	}
}

func TestStreamingEncoderArray(t *testing.T) {
	var buf bytes.Buffer
	enc := NewStreamingEncoder(&buf, true)
	for i := 0; i < 3; i++ {
		if err := enc.Encode(map[string]int{"i": i}); err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}

	var out []map[string]int
	if err := Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid array output %q: %v", buf.String(), err)
	}
	if len(out) != 3 || out[2]["i"] != 2 {
		t.Errorf("decoded %v", out)
	}
}

func TestStreamingEncoderLines(t *testing.T) {
	var buf bytes.Buffer
	enc := NewStreamingEncoder(&buf, false)
	for i := 0; i < 2; i++ {
		if err := enc.Encode(map[string]int{"i": i}); err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	for _, line := range lines {
		var out map[string]int
		if err := Unmarshal([]byte(line), &out); err != nil {
			t.Errorf("line %q: %v", line, err)
		}
	}
}

func TestBufferPoolReset(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("leftover")
	PutBuffer(buf)

	again := GetBuffer()
	defer PutBuffer(again)
	if again.Len() != 0 {
		t.Errorf("pooled buffer not reset, holds %q", again.String())
	}
}

func BenchmarkMarshal(b *testing.B) {
	row := map[string]interface{}{
		"id":    int64(12345),
		"name":  "benchmark row",
		"score": 98.6,
		"ok":    true,
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Marshal(row); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStreamingEncoderLines(b *testing.B) {
	row := map[string]interface{}{"id": int64(1), "name": "row"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		enc := NewStreamingEncoder(&buf, false)
		for j := 0; j < 100; j++ {
			if err := enc.Encode(row); err != nil {
				b.Fatal(err)
			}
		}
		_ = enc.Close()
	}
}
