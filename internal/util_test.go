package internal

import "testing"

func TestMatchNameGlob(t *testing.T) {
	for _, x := range []struct {
		Pattern string
		Name    string
		Match   bool
		Error   bool
	}{
		{"*", "", true, false},
		{"*", "wood", true, false},
		{"wood", "wood", true, false},
		{"wood", "WOOD", true, false},
		{"WOOD", "wood", true, false},
		{"wood", "wood1", false, false},
		{"wood*", "wood1", true, false},
		{"wood*", "WoodFloor", true, false},
		{"*_a", "decal_a", true, false},
		{"*_a", "decal_b", false, false},
		{"*x*", "axa", true, false},
		{"*x*", "aba", false, false},
		{"w??d", "wood", true, false},
		{"w??d", "wod", false, false},
		{"[", "anything", false, true},
		// note: don't need to test full glob semantics since we use path.Match
	} {
		matched, err := MatchNameGlob(x.Pattern, x.Name)
		t.Log()
		t.Logf("LOG: match(%q, %q) = %t, %v", x.Pattern, x.Name, matched, err)

		if matched != x.Match {
			if x.Match {
				t.Errorf("ERR: match(%q, %q) expected match", x.Pattern, x.Name)
			} else {
				t.Errorf("ERR: match(%q, %q) expected no match", x.Pattern, x.Name)
			}
		}
		if err != nil != x.Error {
			if x.Error {
				t.Errorf("ERR: match(%q, %q) expected error, got nil", x.Pattern, x.Name)
			} else {
				t.Errorf("ERR: match(%q, %q) expected no error, got %v", x.Pattern, x.Name, err)
			}
		}
	}
}

func TestFormatBytesSI(t *testing.T) {
	for _, x := range []struct {
		Bytes  int64
		Expect string
	}{
		{0, "0 B"},
		{999, "999 B"},
		{1000, "1.0 kB"},
		{1536, "1.5 kB"},
		{1000000, "1.0 MB"},
		{2621440, "2.6 MB"},
		{-1536, "-1.5 kB"},
	} {
		if s := FormatBytesSI(x.Bytes); s != x.Expect {
			t.Errorf("ERR: format(%d) = %q, expected %q", x.Bytes, s, x.Expect)
		}
	}
}
