package main

import (
	"strings"
	"testing"
)

const sample = `goos: linux
BenchmarkAuthenticate-8   	  200000	      5000 ns/op	    1200 B/op	      20 allocs/op
BenchmarkAuthenticate-8   	  200000	      5200 ns/op	    1200 B/op	      20 allocs/op
BenchmarkAuthenticate-8   	  200000	      5100 ns/op	    1200 B/op	      20 allocs/op
BenchmarkRefresh-8        	   50000	     30000 ns/op
PASS
`

func TestParseBenchmarks(t *testing.T) {
	set, err := parseBenchmarks(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if got := len(set["BenchmarkAuthenticate"]["ns/op"]); got != 3 {
		t.Fatalf("expected 3 samples, got %d", got)
	}
	if got := median(set["BenchmarkAuthenticate"]["ns/op"]); got != 5100 {
		t.Fatalf("median: got %v", got)
	}
	if got := set["BenchmarkRefresh"]["ns/op"]; len(got) != 1 || got[0] != 30000 {
		t.Fatalf("refresh samples: %v", got)
	}
}

func TestCompare(t *testing.T) {
	tracked := map[string][]string{"BenchmarkAuthenticate": {"ns/op"}, "BenchmarkRefresh": {"ns/op"}}
	base := sampleSet{
		"BenchmarkAuthenticate": {"ns/op": {100}},
		"BenchmarkRefresh":      {"ns/op": {100}},
	}

	ok := sampleSet{
		"BenchmarkAuthenticate": {"ns/op": {120}},
		"BenchmarkRefresh":      {"ns/op": {90}},
	}
	if _, failures := compare(base, ok, tracked, 0.30); len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}

	slow := sampleSet{"BenchmarkAuthenticate": {"ns/op": {200}}}
	results, failures := compare(base, slow, tracked, 0.30)
	if len(failures) != 2 {
		t.Fatalf("expected regression and missing sample, got %v", failures)
	}
	if len(results) != 1 || results[0].delta != 1 {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestNormalizeBenchmarkName(t *testing.T) {
	for in, want := range map[string]string{
		"BenchmarkRefresh-16":      "BenchmarkRefresh",
		"BenchmarkRefresh":         "BenchmarkRefresh",
		"BenchmarkRender/sub-case": "BenchmarkRender/sub-case",
	} {
		if got := normalizeBenchmarkName(in); got != want {
			t.Fatalf("%q: got %q want %q", in, got, want)
		}
	}
}
