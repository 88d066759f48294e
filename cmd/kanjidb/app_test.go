package main

import "testing"

func TestParseCodepoint(t *testing.T) {
	cases := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{in: "水", want: '水'},
		{in: "6c34", want: '水'},
		{in: "U+6C34", want: '水'},
		{in: "u+4e9c", want: '亜'},
		{in: "water", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := parseCodepoint(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseCodepoint(%q) expected error, got %U", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseCodepoint(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseCodepoint(%q) = %U, want %U", tc.in, got, tc.want)
		}
	}
}

func TestAppCommandWiring(t *testing.T) {
	app := newApp()
	want := []string{"build", "fetch", "lookup", "random", "kanji", "glyph", "scan", "stats"}
	have := map[string]bool{}
	for _, cmd := range app.Commands {
		have[cmd.Name] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}
