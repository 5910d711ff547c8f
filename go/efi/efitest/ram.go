package efitest

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/corruptos/bootloader/go/models"
)

type ramPage struct {
	addr uint64
	data []byte
}

func (p *ramPage) contains(addr uint64) bool {
	return addr >= p.addr && addr < p.addr+uint64(len(p.data))
}

func (p *ramPage) segment() *models.Segment {
	return &models.Segment{Start: p.addr, End: p.addr + uint64(len(p.data))}
}

// RAM models physical memory as a sorted list of mapped regions. Mapping is
// strict: a range overlapping an existing region fails instead of merging,
// which is what makes fixed-address allocation collisions observable.
type RAM struct {
	pages []*ramPage
}

// Map reserves [addr, addr+size) and returns a slice aliasing the region.
func (r *RAM) Map(addr, size uint64) ([]byte, error) {
	seg := &models.Segment{Start: addr, End: addr + size}
	for _, p := range r.pages {
		if p.segment().Overlaps(seg) {
			return nil, errors.Errorf("%#x-%#x overlaps mapped region %#x-%#x",
				seg.Start, seg.End, p.addr, p.addr+uint64(len(p.data)))
		}
	}
	page := &ramPage{addr: addr, data: make([]byte, size)}
	r.pages = append(r.pages, page)
	sort.Slice(r.pages, func(i, j int) bool {
		return r.pages[i].addr < r.pages[j].addr
	})
	return page.data, nil
}

// Mapped reports whether the whole of [addr, addr+size) is reserved.
func (r *RAM) Mapped(addr, size uint64) bool {
	end := addr + size
	for _, p := range r.pages {
		if p.contains(addr) {
			addr = p.addr + uint64(len(p.data))
			if addr >= end {
				return true
			}
		}
	}
	return addr >= end
}

// Read copies mapped memory starting at addr into p, crossing region
// boundaries as needed.
func (r *RAM) Read(addr uint64, p []byte) error {
	if !r.Mapped(addr, uint64(len(p))) {
		return errors.Errorf("unmapped read at %#x(%d)", addr, len(p))
	}
	for _, page := range r.pages {
		if len(p) == 0 {
			break
		}
		if !page.contains(addr) {
			continue
		}
		o := addr - page.addr
		n := copy(p, page.data[o:])
		addr, p = addr+uint64(n), p[n:]
	}
	return nil
}

// Write copies p into mapped memory starting at addr.
func (r *RAM) Write(addr uint64, p []byte) error {
	if !r.Mapped(addr, uint64(len(p))) {
		return errors.Errorf("unmapped write at %#x(%d)", addr, len(p))
	}
	for _, page := range r.pages {
		if len(p) == 0 {
			break
		}
		if !page.contains(addr) {
			continue
		}
		o := addr - page.addr
		n := copy(page.data[o:], p)
		addr, p = addr+uint64(n), p[n:]
	}
	return nil
}
