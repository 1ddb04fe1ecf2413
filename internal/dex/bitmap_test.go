package dex

import (
	"testing"

	"tickswap/internal/model"
)

func newBitmapPool() *Pool {
	return &Pool{Fee: model.FeeTier3000, Bitmap: make(map[string]string)}
}

func TestFlipTickRequiresAlignment(t *testing.T) {
	p := newBitmapPool()
	if err := p.flipTick(61, 60); err == nil {
		t.Fatal("expected error for unaligned tick")
	}
}

func TestFlipTickTogglesBit(t *testing.T) {
	p := newBitmapPool()
	if err := p.flipTick(60, 60); err != nil {
		t.Fatalf("flip: %v", err)
	}
	if len(p.Bitmap) != 1 {
		t.Fatalf("expected one bitmap word, got %d", len(p.Bitmap))
	}
	if err := p.flipTick(60, 60); err != nil {
		t.Fatalf("flip back: %v", err)
	}
	if len(p.Bitmap) != 0 {
		t.Fatalf("expected empty bitmap after double flip, got %v", p.Bitmap)
	}
}

func TestNextInitializedTickDownward(t *testing.T) {
	p := newBitmapPool()
	if err := p.flipTick(60, 60); err != nil {
		t.Fatalf("flip: %v", err)
	}

	next, initialized := p.nextInitializedTickWithinOneWord(120, 60, true)
	if !initialized || next != 60 {
		t.Fatalf("expected initialized tick 60, got %d (initialized=%v)", next, initialized)
	}

	// searching at the tick itself finds it
	next, initialized = p.nextInitializedTickWithinOneWord(60, 60, true)
	if !initialized || next != 60 {
		t.Fatalf("expected tick 60 at itself, got %d (initialized=%v)", next, initialized)
	}

	// nothing below in this word: boundary sentinel
	next, initialized = p.nextInitializedTickWithinOneWord(0, 60, true)
	if initialized {
		t.Fatalf("expected word boundary, got initialized tick %d", next)
	}
	if next != 0 {
		t.Fatalf("expected boundary tick 0, got %d", next)
	}
}

func TestNextInitializedTickUpward(t *testing.T) {
	p := newBitmapPool()
	if err := p.flipTick(60, 60); err != nil {
		t.Fatalf("flip: %v", err)
	}

	next, initialized := p.nextInitializedTickWithinOneWord(0, 60, false)
	if !initialized || next != 60 {
		t.Fatalf("expected initialized tick 60, got %d (initialized=%v)", next, initialized)
	}

	// upward search is strictly above the current tick
	next, initialized = p.nextInitializedTickWithinOneWord(60, 60, false)
	if initialized {
		t.Fatalf("expected word boundary above 60, got initialized tick %d", next)
	}
	if next != 255*60 {
		t.Fatalf("expected boundary tick %d, got %d", 255*60, next)
	}
}

func TestNextInitializedTickNegative(t *testing.T) {
	p := newBitmapPool()
	if err := p.flipTick(-60, 60); err != nil {
		t.Fatalf("flip: %v", err)
	}

	next, initialized := p.nextInitializedTickWithinOneWord(-1, 60, true)
	if !initialized || next != -60 {
		t.Fatalf("expected initialized tick -60, got %d (initialized=%v)", next, initialized)
	}

	next, initialized = p.nextInitializedTickWithinOneWord(-120, 60, false)
	if !initialized || next != -60 {
		t.Fatalf("expected initialized tick -60 searching up, got %d (initialized=%v)", next, initialized)
	}
}
