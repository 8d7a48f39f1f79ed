package exr

import "testing"

func TestParsePrecision(t *testing.T) {
	cases := []struct {
		input   string
		want    Precision
		wantErr bool
	}{
		{input: "half", want: PrecisionHalf},
		{input: "HALF", want: PrecisionHalf},
		{input: " H ", want: PrecisionHalf},
		{input: "", want: PrecisionHalf},
		{input: "float", want: PrecisionFloat},
		{input: "FLOAT", want: PrecisionFloat},
		{input: "f32", want: PrecisionFloat},
		{input: "double", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParsePrecision(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParsePrecision(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePrecision(%q): %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePrecision(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestPrecisionSampleBytes(t *testing.T) {
	if got := PrecisionHalf.SampleBytes(); got != 2 {
		t.Fatalf("half sample bytes = %d, want 2", got)
	}
	if got := PrecisionFloat.SampleBytes(); got != 4 {
		t.Fatalf("float sample bytes = %d, want 4", got)
	}
}

func TestPrecisionString(t *testing.T) {
	if PrecisionHalf.String() != "HALF" || PrecisionFloat.String() != "FLOAT" {
		t.Fatalf("unexpected precision names: %s, %s", PrecisionHalf, PrecisionFloat)
	}
}
