package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	ahocorasick "github.com/coregx/ahocorasick"
)

func main() {
	fmt.Println("Testing Trie (builder + in-memory queries)...")
	testTrie()

	fmt.Println("\nTesting Write/OpenMapped round trip...")
	testMappedRoundTrip()

	fmt.Println("\n✅ All tests passed!")
}

func testTrie() {
	tr := ahocorasick.New()

	if err := tr.Add([]byte("foo"), 0); err != nil {
		log.Fatalf("Add failed: %v", err)
	}
	if err := tr.Add([]byte("foobar"), 1); err != nil {
		log.Fatalf("Add failed: %v", err)
	}
	if err := tr.Add([]byte("bar"), 2); err != nil {
		log.Fatalf("Add failed: %v", err)
	}
	fmt.Println("  ✓ Add works")

	if err := tr.Compile(); err != nil {
		log.Fatalf("Compile failed: %v", err)
	}
	fmt.Println("  ✓ Compile works")

	ok, err := tr.Contains([]byte("foo"))
	if err != nil {
		log.Fatalf("Contains failed: %v", err)
	}
	if !ok {
		log.Fatal("Contains expected true for \"foo\"")
	}
	fmt.Println("  ✓ Contains works")

	m, ok, err := tr.FindLong([]byte("xfoobary"))
	if err != nil {
		log.Fatalf("FindLong failed: %v", err)
	}
	if !ok || m.Payload != 1 {
		log.Fatalf("FindLong expected payload 1, got ok=%v payload=%v", ok, m.Payload)
	}
	fmt.Println("  ✓ FindLong works")

	it, err := tr.FindAllShort([]byte("foobar"))
	if err != nil {
		log.Fatalf("FindAllShort failed: %v", err)
	}
	count := 0
	for m := it.Next(); m != nil; m = it.Next() {
		count++
	}
	if count != 2 {
		log.Fatalf("FindAllShort expected 2 matches (foo, bar), got %d", count)
	}
	fmt.Println("  ✓ FindAllShort works")
}

func testMappedRoundTrip() {
	tr := ahocorasick.New()
	if err := tr.Add([]byte("foo"), 0); err != nil {
		log.Fatalf("Add failed: %v", err)
	}
	if err := tr.Add([]byte("bar"), 1); err != nil {
		log.Fatalf("Add failed: %v", err)
	}
	if err := tr.Compile(); err != nil {
		log.Fatalf("Compile failed: %v", err)
	}

	dir, err := os.MkdirTemp("", "actest-ac")
	if err != nil {
		log.Fatalf("MkdirTemp failed: %v", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "trie.bin")
	if err := tr.WriteFile(path); err != nil {
		log.Fatalf("WriteFile failed: %v", err)
	}
	fmt.Println("  ✓ WriteFile works")

	mt, err := ahocorasick.OpenMapped(path)
	if err != nil {
		log.Fatalf("OpenMapped failed: %v", err)
	}
	defer mt.Close()
	fmt.Println("  ✓ OpenMapped works")

	text := []byte("\x1Fbar\x1F\x1Ffoo\x1F")
	it := mt.FindAllAnchored(text)
	count := 0
	for m := it.Next(); m != nil; m = it.Next() {
		count++
	}
	if count != 2 {
		log.Fatalf("FindAllAnchored expected 2 matches, got %d", count)
	}
	fmt.Println("  ✓ FindAllAnchored works")

	if mt.NodeCount() != tr.NodeCount() {
		log.Fatalf("NodeCount mismatch: mapped=%d builder=%d", mt.NodeCount(), tr.NodeCount())
	}
	fmt.Println("  ✓ NodeCount matches across serialization")
}
