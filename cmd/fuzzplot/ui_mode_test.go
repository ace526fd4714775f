package main

import (
	"strings"
	"testing"

	"fuzzplot/internal/telemetry"
)

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		input   string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"auto", uiModeAuto, false},
		{"ON", uiModeOn, false},
		{" off ", uiModeOff, false},
		{"yes", "", true},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("readUIMode(%q) err = %v, wantErr = %v", tc.input, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("readUIMode(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPrintFrame(t *testing.T) {
	f := telemetry.NewFrame(map[int64]telemetry.Snapshot{
		0:  {"foundEdges": 0, "totalSamples": 0},
		60: {"foundEdges": 5, "totalSamples": 60},
	})
	f.RemapCols(func(ts int64) int64 { return ts / 60 })

	var b strings.Builder
	printFrame(&b, f)
	out := b.String()

	for _, want := range []string{"foundEdges", "totalSamples"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing row %q:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus two rows:\n%s", len(lines), out)
	}
}

func TestPrintFrameEmpty(t *testing.T) {
	var b strings.Builder
	printFrame(&b, telemetry.NewFrame(nil))
	if !strings.Contains(b.String(), "empty") {
		t.Errorf("empty frame output = %q", b.String())
	}
}
