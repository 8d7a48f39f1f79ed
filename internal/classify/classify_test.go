package classify

import (
	"reflect"
	"testing"
)

func outputs(registrations []Registration) []string {
	names := make([]string, len(registrations))
	for i, registration := range registrations {
		names[i] = registration.Output
	}
	return names
}

func TestChannelsColor(t *testing.T) {
	got := Channels("", []string{"B", "G", "R", "A"})
	want := []Registration{
		{Output: "R", Source: "R"},
		{Output: "G", Source: "G"},
		{Output: "B", Source: "B"},
		{Output: "A", Source: "A"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestChannelsColorWithoutAlpha(t *testing.T) {
	got := outputs(Channels("Diffuse", []string{"R", "G", "B"}))
	want := []string{"Diffuse.R", "Diffuse.G", "Diffuse.B"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestChannelsVector(t *testing.T) {
	got := outputs(Channels("Normals", []string{"X", "Y", "Z"}))
	want := []string{"Normals.X", "Normals.Y", "Normals.Z"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestChannelsSingleScalarBecomesY(t *testing.T) {
	got := Channels("Depth", []string{"Z"})
	want := []Registration{{Output: "Depth.Y", Source: "Z"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestChannelsRestKeepsNames(t *testing.T) {
	got := outputs(Channels("Crypto", []string{"rank", "id01", "id00"}))
	want := []string{"Crypto.id00", "Crypto.id01", "Crypto.rank"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestChannelsVectorPlusScalarKeepsNamesDistinct(t *testing.T) {
	got := Channels("Motion", []string{"X", "Y", "Z", "W"})
	want := []Registration{
		{Output: "Motion.X", Source: "X"},
		{Output: "Motion.Y", Source: "W"},
		{Output: "Motion.Z", Source: "Z"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	seen := make(map[string]bool)
	for _, registration := range got {
		if seen[registration.Output] {
			t.Fatalf("duplicate output name %s in %v", registration.Output, got)
		}
		seen[registration.Output] = true
	}
}

func TestChannelsColorThenLeftoverScalar(t *testing.T) {
	got := Channels("", []string{"R", "G", "B", "depth"})
	want := []Registration{
		{Output: "R", Source: "R"},
		{Output: "G", Source: "G"},
		{Output: "B", Source: "B"},
		{Output: "Y", Source: "depth"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
