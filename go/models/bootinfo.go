package models

import (
	"bytes"
	"encoding/binary"

	"github.com/lunixbochs/struc"
)

// Framebuffer describes the linear framebuffer taken from the firmware's
// graphics output protocol. It is produced once by discovery and never
// modified afterwards; ownership passes into the hand-off descriptor.
type Framebuffer struct {
	Base              uint64
	Size              uint64
	Width             uint32
	Height            uint32
	PixelsPerScanline uint32
}

// PoolBuffer is a buffer obtained from the firmware pool allocator. Addr is
// the physical address of the allocation; Data aliases its contents. Pool
// buffers are never freed by the loader, ownership transfers at hand-off.
type PoolBuffer struct {
	Addr uint64
	Data []byte
}

func (p *PoolBuffer) End() uint64 {
	return p.Addr + uint64(len(p.Data))
}

// PSF1Header is the 4-byte header of a PSF1 bitmap font.
type PSF1Header struct {
	Magic    [2]byte
	Mode     byte
	Charsize byte
}

// GlyphCount returns 512 for 512-glyph mode (mode byte == 1), 256 otherwise.
func (h *PSF1Header) GlyphCount() int {
	if h.Mode == 1 {
		return 512
	}
	return 256
}

// GlyphBufferSize is the exact byte size of the glyph table that follows the
// header on disk.
func (h *PSF1Header) GlyphBufferSize() int {
	return int(h.Charsize) * h.GlyphCount()
}

// PSF1Font is a loaded font: the parsed header plus the pool-resident copies
// referenced by the hand-off descriptor.
type PSF1Font struct {
	Header PSF1Header

	// HeaderRaw holds the 4 header bytes in pool memory; the descriptor
	// points the kernel at this copy, not at the parsed value above.
	HeaderRaw PoolBuffer
	Glyphs    PoolBuffer
}

// KernelImage is the result of placing an ELF executable: the entry address
// from its header and the extent bookkeeping handed to the kernel.
//
// Start and End are the bounds of the loader-resident program-header buffer,
// not the union of the placed segments. The descriptor passes them through
// as-is; anything needing the true physical image span must recompute it
// from Segments.
type KernelImage struct {
	Entry uint64
	Size  uint64
	Start uint64
	End   uint64

	// Segments records the placed LOAD ranges for diagnostics only.
	Segments []Segment
}

// BootInfo is the hand-off descriptor passed by value to the kernel entry
// point. Field order and widths are an ABI shared with the kernel binary;
// reordering or resizing any field breaks the boot contract.
type BootInfo struct {
	FramebufferBase   uint64
	FramebufferSize   uint64
	Width             uint32
	Height            uint32
	PixelsPerScanline uint32
	// keeps the 64-bit fields below naturally aligned
	Reserved uint32

	FontHeader uint64
	FontGlyphs uint64

	KernelSize  uint64
	KernelStart uint64
	KernelEnd   uint64
}

// BootInfoSize is the packed byte size of the hand-off ABI.
const BootInfoSize = 8*2 + 4*4 + 8*5

// Pack serializes the descriptor in its exact ABI layout, little-endian.
func (b *BootInfo) Pack() ([]byte, error) {
	var buf bytes.Buffer
	if err := struc.PackWithOrder(&buf, b, binary.LittleEndian); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
