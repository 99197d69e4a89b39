package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestCodecRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		records []item
	}{
		{"empty", []item{}},
		{"one", []item{{ID: 1, Name: "one"}}},
		{"several", []item{{ID: 3, Day: "2024-01-01"}, {ID: 1, Name: "é \"quoted\""}, {ID: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := encode(tt.records)
			if err != nil {
				t.Fatalf("encode() error = %v", err)
			}
			got, err := decode[item](data)
			if err != nil {
				t.Fatalf("decode() error = %v", err)
			}
			if diff := cmp.Diff(tt.records, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncode_Format(t *testing.T) {
	data, err := encode([]item{{ID: 2, Name: "b"}, {ID: 1}})
	if err != nil {
		t.Fatal(err)
	}
	want := `[
  {
    "id": 2,
    "name": "b"
  },
  {
    "id": 1
  }
]
`
	if string(data) != want {
		t.Errorf("encode() = %q, want %q", data, want)
	}

	empty, err := encode[item](nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(empty) != "[]\n" {
		t.Errorf("encode(nil) = %q, want %q", empty, "[]\n")
	}
}

func TestDecode_ZeroBytes(t *testing.T) {
	got, err := decode[item](nil)
	if err != nil {
		t.Fatalf("decode(nil) error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("decode(nil) = %v, want empty", got)
	}
}
