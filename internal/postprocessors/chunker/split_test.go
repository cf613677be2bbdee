package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitBySeparator(t *testing.T) {
	t.Run("greedy packing", func(t *testing.T) {
		p := New(WithChunkSize(10), WithOverlap(0))

		got := p.splitBySeparator("aa bb cc dd", " ")
		want := []string{"aa bb cc", "dd"}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("piece %d: got %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("oversized part kept whole", func(t *testing.T) {
		p := New(WithChunkSize(10), WithOverlap(0))

		big := strings.Repeat("z", 30)
		got := p.splitBySeparator("tiny "+big, " ")
		if len(got) != 2 {
			t.Fatalf("expected 2 pieces, got %v", got)
		}
		if got[1] != big {
			t.Errorf("oversized part was altered: %q", got[1])
		}
	})

	t.Run("character level fallback", func(t *testing.T) {
		p := New(WithChunkSize(10), WithOverlap(3))

		got := p.splitBySeparator(strings.Repeat("x", 20), "")
		// Stride is chunkSize-overlap = 7: windows 0-10, 7-17, 14-20.
		if len(got) != 3 {
			t.Fatalf("expected 3 pieces, got %d: %v", len(got), got)
		}
		if len(got[0]) != 10 {
			t.Errorf("expected first piece length 10, got %d", len(got[0]))
		}
	})
}

func TestSplitText_Hierarchy(t *testing.T) {
	p := New(WithChunkSize(80), WithOverlap(10))

	para1 := strings.Repeat("a", 60)
	para2 := strings.Repeat("b", 60)
	got := p.splitText(para1 + "\n\n" + para2)

	if len(got) != 2 {
		t.Fatalf("expected paragraph split into 2 chunks, got %d: %v", len(got), got)
	}
	if got[0] != para1 {
		t.Errorf("first chunk altered: %q", got[0])
	}
	// Second chunk carries overlap from the first.
	if !strings.HasSuffix(got[1], para2) {
		t.Errorf("second chunk missing paragraph: %q", got[1])
	}
	if !strings.HasPrefix(got[1], "aaaa") {
		t.Errorf("second chunk missing overlap prefix: %q", got[1])
	}
}

func TestSplitText_SmallInput(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))

	got := p.splitText("fits in one chunk")
	if len(got) != 1 || got[0] != "fits in one chunk" {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestMergeAndOverlap(t *testing.T) {
	t.Run("small pieces absorbed", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(20))

		got := p.mergeAndOverlap([]string{"tiny", "also small", "still short"})
		if len(got) != 1 {
			t.Fatalf("expected 1 merged chunk, got %d: %v", len(got), got)
		}
	})

	t.Run("overlap carried forward", func(t *testing.T) {
		p := New(WithChunkSize(10), WithOverlap(3))

		got := p.mergeAndOverlap([]string{"abcdefghij", "0123456789"})
		if len(got) != 2 {
			t.Fatalf("expected 2 chunks, got %v", got)
		}
		if got[0] != "abcdefghij" {
			t.Errorf("first chunk altered: %q", got[0])
		}
		if got[1] != "hij 0123456789" {
			t.Errorf("expected overlap prefix, got %q", got[1])
		}
	})

	t.Run("empty input", func(t *testing.T) {
		p := New()
		if got := p.mergeAndOverlap(nil); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}

func TestOverlapTail(t *testing.T) {
	t.Run("ascii window unchanged", func(t *testing.T) {
		if got := overlapTail("abcdefghij", 3); got != "hij" {
			t.Errorf("got %q, want %q", got, "hij")
		}
	})

	t.Run("window covering whole string", func(t *testing.T) {
		if got := overlapTail("abc", 10); got != "abc" {
			t.Errorf("got %q, want %q", got, "abc")
		}
	})

	t.Run("extends to rune boundary", func(t *testing.T) {
		s := strings.Repeat("é", 10) // 2 bytes per rune
		got := overlapTail(s, 5)
		if !utf8.ValidString(got) {
			t.Fatalf("overlap window split a rune: %q", got)
		}
		if got != strings.Repeat("é", 3) {
			t.Errorf("got %q, want 3 runes", got)
		}
	})
}

func TestMergeAndOverlap_MultiByteRunes(t *testing.T) {
	p := New(WithChunkSize(20), WithOverlap(5))

	first := strings.Repeat("é", 10)
	got := p.mergeAndOverlap([]string{first, "next piece"})
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %v", got)
	}
	for i, chunk := range got {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, chunk)
		}
	}
	if !strings.HasPrefix(got[1], "ééé ") {
		t.Errorf("expected rune-aligned overlap prefix, got %q", got[1])
	}
}
