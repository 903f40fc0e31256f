package domain

import "testing"

func TestSeedChainDeterminism(t *testing.T) {
	a := NewCreationChain(12345, "req-1", "owner-a")
	b := NewCreationChain(12345, "req-1", "owner-a")

	for i := 0; i < 32; i++ {
		got, want := a.Next("draw"), b.Next("draw")
		if got != want {
			t.Fatalf("draw %d = %d, want %d", i, got, want)
		}
	}
}

func TestSeedChainMixesAllParts(t *testing.T) {
	base := NewCreationChain(12345, "req-1", "owner-a").Next("draw")

	variants := map[string]*SeedChain{
		"random value": NewCreationChain(12346, "req-1", "owner-a"),
		"request id":   NewCreationChain(12345, "req-2", "owner-a"),
		"owner":        NewCreationChain(12345, "req-1", "owner-b"),
	}
	for name, chain := range variants {
		if got := chain.Next("draw"); got == base {
			t.Errorf("changing %s did not change the draw", name)
		}
	}
}

func TestSeedChainAdvancesState(t *testing.T) {
	chain := NewCreationChain(1, "req", "owner")
	first := chain.Next("tag")
	second := chain.Next("tag")
	if first == second {
		t.Fatalf("consecutive draws with the same tag are identical: %d", first)
	}
}

func TestSeedChainIntnBounds(t *testing.T) {
	chain := NewCreationChain(7, "req", "owner")
	for i := 0; i < 1000; i++ {
		got := chain.Intn("bound", 6)
		if got < 0 || got >= 6 {
			t.Fatalf("Intn(6) = %d, out of range", got)
		}
	}
}
