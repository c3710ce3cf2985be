package adequacy

import (
	"math"
	"strings"
	"testing"

	"github.com/fbreitwieser/Mash/src/params"
)

// a reference set where every sequence is far above the threshold for k=3
var (
	smallK = &params.Parameters{KmerSize: 3, Warning: 0.01, Concatenated: true}
	orders = [][]Stat{
		{{"a", 1000}, {"b", 5000}, {"c", 3000}},
		{{"b", 5000}, {"a", 1000}, {"c", 3000}},
		{{"c", 3000}, {"a", 1000}, {"b", 5000}},
	}
)

func TestLengthThreshold(t *testing.T) {
	threshold := LengthThreshold(0.01, 4, 16)
	want := 0.01 * math.Pow(4, 16) / 0.99
	if threshold != uint64(want) || threshold != 43383508 {
		t.Fatalf("threshold for k=16, p=0.01 should be %v, got %d", want, threshold)
	}

	// one below is fine, one above is flagged
	p := &params.Parameters{KmerSize: 16, Warning: 0.01}
	if f := Scan(p, []Stat{{"below", threshold - 1}}); f.ViolationCount != 0 {
		t.Fatal("a reference below the threshold should not be flagged")
	}
	if f := Scan(p, []Stat{{"above", threshold + 1}}); f.ViolationCount != 1 {
		t.Fatal("a reference above the threshold should be flagged")
	}

	// protein has a much larger k-mer space
	if LengthThreshold(0.01, 20, 16) <= threshold {
		t.Fatal("the protein threshold should be larger than the nucleotide one")
	}

	// very large spaces saturate rather than overflow
	if LengthThreshold(0.01, 20, 32) != math.MaxUint64 {
		t.Fatal("the threshold should saturate at the maximum length")
	}
	if LengthThreshold(0, 4, 21) != 0 {
		t.Fatal("a zero tolerance should give a zero threshold")
	}
}

func TestWorstOffender(t *testing.T) {
	for _, stats := range orders {
		f := Scan(smallK, stats)
		if f.ViolationCount != 3 {
			t.Fatalf("expected 3 violations, got %d", f.ViolationCount)
		}
		if f.Length != 5000 || f.Name != "b" {
			t.Fatalf("the longest reference should be reported, got %q (%d)", f.Name, f.Length)
		}
	}

	// ties keep the first one found
	f := Scan(smallK, []Stat{{"first", 4000}, {"second", 4000}})
	if f.Name != "first" {
		t.Fatalf("a tie should keep the first reference, got %q", f.Name)
	}
}

func TestFindingValues(t *testing.T) {
	p := &params.Parameters{KmerSize: 10, Warning: 0.01}
	f := Scan(p, []Stat{{"chr1", 1000000}})
	if f.ViolationCount != 1 {
		t.Fatal("a 1Mbp sequence should be flagged for k=10")
	}
	wantChance := 1 / (math.Pow(4, 10)/1000000 + 1)
	if math.Abs(f.RandomChance-wantChance) > 1e-12 {
		t.Fatalf("random chance should be %v, got %v", wantChance, f.RandomChance)
	}
	if f.RandomChance <= p.Warning {
		t.Fatal("the random chance of a flagged sequence should exceed the warning threshold")
	}
	if f.MinKmerSize != 14 {
		t.Fatalf("minimum k-mer size for 1Mbp at p=0.01 should be 14, got %d", f.MinKmerSize)
	}
	if RandomKmerChance(1000000, 4, f.MinKmerSize) > p.Warning {
		t.Fatal("the suggested k-mer size should bring the random chance under the threshold")
	}
	if RandomKmerChance(1000000, 4, f.MinKmerSize-1) <= p.Warning {
		t.Fatal("the suggested k-mer size should be the smallest that works")
	}
}

func TestMinKmerSizeCap(t *testing.T) {
	if k := MinKmerSize(100, 0, 4, params.MaxKmerSize); k != params.MaxKmerSize {
		t.Fatalf("an unreachable threshold should return the maximum k-mer size, got %d", k)
	}
	if k := MinKmerSize(1, 0.5, 4, params.MaxKmerSize); k != 1 {
		t.Fatalf("a single residue is fine at any k, got %d", k)
	}
}

func TestZeroTolerance(t *testing.T) {
	p := &params.Parameters{KmerSize: 21, Warning: 0}
	f := Scan(p, []Stat{{"one", 1}, {"empty", 0}, {"two", 2}})
	if f.ViolationCount != 2 {
		t.Fatalf("every non-empty reference should be flagged with p=0, got %d", f.ViolationCount)
	}
}

func TestCheck(t *testing.T) {
	// nothing to report
	p := &params.Parameters{KmerSize: 21, Warning: 0.01}
	if Check(p, []Stat{{"short", 100}, {"short2", 1000}}) != nil {
		t.Fatal("short references should not be reported")
	}
	if Check(p, nil) != nil {
		t.Fatal("an empty reference set should not be reported")
	}

	// read mode is never reported
	reads := *smallK
	reads.Reads = true
	if Check(&reads, orders[0]) != nil {
		t.Fatal("read mode should suppress the diagnostic")
	}

	f := Check(smallK, orders[0])
	if f == nil {
		t.Fatal("violations should be reported")
	}
	msg := f.String()
	for _, part := range []string{"\"b\"", "5000", "(and 2 others)", "these sequences", "See: -k, -w."} {
		if !strings.Contains(msg, part) {
			t.Fatalf("warning %q is missing %q", msg, part)
		}
	}
	single := Check(smallK, orders[0][:1])
	if msg := single.String(); strings.Contains(msg, "others") || !strings.Contains(msg, "this sequence") {
		t.Fatalf("a single violation should not mention others: %q", msg)
	}
}
