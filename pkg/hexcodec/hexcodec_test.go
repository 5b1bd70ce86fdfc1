package hexcodec

import "testing"

func TestParseWord(t *testing.T) {
	cases := []struct {
		in        string
		wantNext  string
		wantValue uint32
	}{
		{"", "", 0},
		{"deadbeef", "", 0xDEADBEEF},
		{"DEADBEEF", "", 0xDEADBEEF},
		{"1234", "", 0x00001234},
		{"12345678extra", "extra", 0x12345678},
		{"zz", "zz", 0},
		{"abz", "z", 0x0ab},
	}
	for _, c := range cases {
		next, value := ParseWord(c.in)
		if next != c.wantNext || value != c.wantValue {
			t.Errorf("ParseWord(%q) = (%q, %#x), want (%q, %#x)",
				c.in, next, value, c.wantNext, c.wantValue)
		}
	}
}

func TestEmitWord(t *testing.T) {
	cases := []struct {
		w             uint32
		forceAllZeros bool
		want          string
	}{
		{0x00000000, false, "0"},
		{0x00000100, false, "100"},
		{0x00000020, false, "20"},
		{0x00000010, false, "10"},
		{0xDEADBEEF, false, "DEADBEEF"},
		{0x00010203, true, "00010203"},
		{0x00000000, true, "00000000"},
		{0x0000000F, true, "0000000F"},
	}
	for _, c := range cases {
		got := string(EmitWord(c.w, nil, c.forceAllZeros))
		if got != c.want {
			t.Errorf("EmitWord(%#x, forceAll=%v) = %q, want %q", c.w, c.forceAllZeros, got, c.want)
		}
	}
}

func TestEmitByteForcedNibbles(t *testing.T) {
	if got := string(EmitByte(0x00, nil, 0)); got != "" {
		t.Errorf("EmitByte(0, 0) = %q, want empty", got)
	}
	if got := string(EmitByte(0x00, nil, ForceHigh)); got != "0" {
		t.Errorf("EmitByte(0, ForceHigh) = %q, want \"0\"", got)
	}
	if got := string(EmitByte(0x00, nil, ForceLow)); got != "0" {
		t.Errorf("EmitByte(0, ForceLow) = %q, want \"0\"", got)
	}
	if got := string(EmitByte(0x05, nil, 0)); got != "5" {
		t.Errorf("EmitByte(0x05, 0) = %q, want \"5\" (high nibble zero and unforced is suppressed)", got)
	}
	if got := string(EmitByte(0x50, nil, 0)); got != "50" {
		t.Errorf("EmitByte(0x50, 0) = %q, want \"50\" (nonzero high nibble forces the low nibble)", got)
	}
}

func TestHexRoundTrip(t *testing.T) {
	words := []uint32{0, 1, 0xFF, 0x100, 0xDEADBEEF, 0xFFFFFFFF}
	for _, w := range words {
		s := string(EmitWord(w, nil, true))
		_, got := ParseWord(s)
		if got != w {
			t.Errorf("round trip %#x -> %q -> %#x", w, s, got)
		}
	}
}
