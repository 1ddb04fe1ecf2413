package dex

import (
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"

	"tickswap/internal/model"
)

var zero = decimal.Zero

// The bitmap packs one bit per spacing-aligned tick into 256-bit words. Word
// position is the compressed tick index shifted right by 8; the low 8 bits
// select the bit within the word.

func compressTick(tick, spacing int32) int32 {
	compressed := tick / spacing
	if tick < 0 && tick%spacing != 0 {
		compressed--
	}
	return compressed
}

func (p *Pool) bitmapWord(wordPos int32) *big.Int {
	raw, ok := p.Bitmap[strconv.Itoa(int(wordPos))]
	if !ok {
		return new(big.Int)
	}
	word, ok := new(big.Int).SetString(raw, 16)
	if !ok {
		return new(big.Int)
	}
	return word
}

func (p *Pool) setBitmapWord(wordPos int32, word *big.Int) {
	key := strconv.Itoa(int(wordPos))
	if word.Sign() == 0 {
		delete(p.Bitmap, key)
		return
	}
	p.Bitmap[key] = word.Text(16)
}

// flipTick toggles the initialized bit for a spacing-aligned tick.
func (p *Pool) flipTick(tick, spacing int32) error {
	if tick%spacing != 0 {
		return model.Validationf("tick %d not aligned to spacing %d", tick, spacing)
	}
	compressed := compressTick(tick, spacing)
	wordPos := compressed >> 8
	bitPos := uint(compressed & 255)

	word := p.bitmapWord(wordPos)
	word.Xor(word, new(big.Int).Lsh(big.NewInt(1), bitPos))
	p.setBitmapWord(wordPos, word)
	return nil
}

// nextInitializedTickWithinOneWord searches one bitmap word for the next
// initialized tick. With lte it looks at or below the current tick, otherwise
// strictly above. When the word holds no set bit in the search direction the
// word-boundary tick is returned with initialized=false so the caller can
// continue from the adjacent word.
func (p *Pool) nextInitializedTickWithinOneWord(tick, spacing int32, lte bool) (int32, bool) {
	compressed := compressTick(tick, spacing)

	if lte {
		wordPos := compressed >> 8
		bitPos := uint(compressed & 255)
		word := p.bitmapWord(wordPos)

		// keep bits at or below bitPos
		mask := new(big.Int).Lsh(big.NewInt(1), bitPos+1)
		mask.Sub(mask, big.NewInt(1))
		masked := new(big.Int).And(word, mask)

		if masked.Sign() != 0 {
			msb := int32(masked.BitLen() - 1)
			return (wordPos<<8 + msb) * spacing, true
		}
		return (wordPos << 8) * spacing, false
	}

	compressed++
	wordPos := compressed >> 8
	bitPos := uint(compressed & 255)
	word := p.bitmapWord(wordPos)

	// clear bits below bitPos
	masked := new(big.Int).Rsh(word, bitPos)
	masked.Lsh(masked, bitPos)

	if masked.Sign() != 0 {
		lsb := int32(masked.TrailingZeroBits())
		return (wordPos<<8 + lsb) * spacing, true
	}
	return (wordPos<<8 + 255) * spacing, false
}
