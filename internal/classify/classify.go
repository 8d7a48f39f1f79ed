// Package classify decides how the channels found in one source file are
// registered into the merged container's namespace. Renderers disagree on
// channel naming, so known shapes are normalized to a small schema
// (R/G/B/[A], X/Y/Z, or Y for single scalars) and anything else keeps its
// original name.
package classify

import "sort"

// Registration maps one source channel to its name in the merged container.
type Registration struct {
	// Output is the fully namespaced channel name written to the
	// container ("R", or "Depth.Y").
	Output string
	// Source is the channel name to read from the source file.
	Source string
}

// Channels registers a source file's channel set under the given layer.
// layer "" is the unprefixed top-level namespace. Rules apply in priority
// order, each consuming its channels from the remaining set:
//
//  1. R/G/B present: register R, G, B, plus A when present.
//  2. X/Y/Z present in the remainder: register X, Y, Z.
//  3. Exactly one channel remains: register it as "Y", the convention for
//     single-scalar passes (a depth channel named Z becomes "<layer>.Y").
//  4. Otherwise every remaining channel keeps its own name.
//
// The function is total over any non-empty channel set. Output names are
// pairwise distinct: when two rules claim the same name, the first keeps
// its position and the later source wins.
func Channels(layer string, channels []string) []Registration {
	remaining := make(map[string]struct{}, len(channels))
	for _, name := range channels {
		remaining[name] = struct{}{}
	}

	var registrations []Registration
	register := func(output, source string) {
		if layer != "" {
			output = layer + "." + output
		}
		registrations = append(registrations, Registration{Output: output, Source: source})
	}

	if hasAll(remaining, "R", "G", "B") {
		register("R", "R")
		register("G", "G")
		register("B", "B")
		if _, ok := remaining["A"]; ok {
			register("A", "A")
		}
		delete(remaining, "R")
		delete(remaining, "G")
		delete(remaining, "B")
		delete(remaining, "A")
	}

	if hasAll(remaining, "X", "Y", "Z") {
		register("X", "X")
		register("Y", "Y")
		register("Z", "Z")
		delete(remaining, "X")
		delete(remaining, "Y")
		delete(remaining, "Z")
	}

	rest := make([]string, 0, len(remaining))
	for name := range remaining {
		rest = append(rest, name)
	}
	sort.Strings(rest)

	if len(rest) == 1 {
		register("Y", rest[0])
	} else {
		for _, name := range rest {
			register(name, name)
		}
	}
	return dedupe(registrations)
}

// dedupe collapses registrations that share an output name: the first
// keeps its position, the last source wins. Rule 3 can otherwise emit a
// second "Y" after rule 2 already claimed it.
func dedupe(registrations []Registration) []Registration {
	index := make(map[string]int, len(registrations))
	deduped := make([]Registration, 0, len(registrations))
	for _, registration := range registrations {
		if at, seen := index[registration.Output]; seen {
			deduped[at].Source = registration.Source
			continue
		}
		index[registration.Output] = len(deduped)
		deduped = append(deduped, registration)
	}
	return deduped
}

func hasAll(set map[string]struct{}, names ...string) bool {
	for _, name := range names {
		if _, ok := set[name]; !ok {
			return false
		}
	}
	return true
}
