package loader

import (
	"testing"
)

func validHeader() *elfHeader {
	hdr := &elfHeader{
		Type:      etExec,
		Machine:   emX86_64,
		Version:   evCurrent,
		Entry:     0x101000,
		Phoff:     64,
		Ehsize:    64,
		Phentsize: 56,
	}
	copy(hdr.Ident[:], elfMagic)
	hdr.Ident[eiClass] = elfClass64
	hdr.Ident[eiData] = elfDataLSB
	hdr.Ident[6] = 1
	return hdr
}

func TestCheckHeaderValid(t *testing.T) {
	if err := checkHeader(validHeader()); err != nil {
		t.Fatal(err)
	}
}

// Acceptance is a conjunction of six independent checks: flipping any single
// field from the valid fixture must reject.
func TestCheckHeaderFieldFlips(t *testing.T) {
	flips := []struct {
		name   string
		mutate func(h *elfHeader)
	}{
		{"magic", func(h *elfHeader) { h.Ident[0] = 0x7e }},
		{"class", func(h *elfHeader) { h.Ident[eiClass] = 1 }},
		{"data", func(h *elfHeader) { h.Ident[eiData] = 2 }},
		{"type", func(h *elfHeader) { h.Type = 3 }},
		{"machine", func(h *elfHeader) { h.Machine = 40 }},
		{"version", func(h *elfHeader) { h.Version = 0 }},
	}
	for _, f := range flips {
		hdr := validHeader()
		f.mutate(hdr)
		if err := checkHeader(hdr); err == nil {
			t.Errorf("%s flip accepted", f.name)
		}
	}
}
