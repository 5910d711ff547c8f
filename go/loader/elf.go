// Package loader validates an ELF64 kernel image and places its LOAD
// segments at their declared physical addresses through the firmware page
// allocator.
package loader

import (
	"github.com/pkg/errors"

	"github.com/corruptos/bootloader/go/models"
)

var elfMagic = []byte{0x7f, 0x45, 0x4c, 0x46}

// e_ident indexes and the accepted identification profile. The loader is
// built for exactly one target: 64-bit little-endian x86_64 executables.
const (
	eiClass = 4
	eiData  = 5

	elfClass64 = 2
	elfDataLSB = 1

	etExec    = 2
	emX86_64  = 62
	evCurrent = 1

	ptLoad = 1

	// size of elfProgHeader; a declared e_phentsize below this cannot
	// hold the fields the placement loop reads
	phdrMinSize = 56
)

var ErrBadHeader = errors.New("invalid executable header")

type elfHeader struct {
	Ident     [16]byte
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint64
	Phoff     uint64
	Shoff     uint64
	Flags     uint32
	Ehsize    uint16
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

type elfProgHeader struct {
	Type   uint32
	Flags  uint32
	Off    uint64
	Vaddr  uint64
	Paddr  uint64
	Filesz uint64
	Memsz  uint64
	Align  uint64
}

// checkHeader accepts a header only when every identification field matches
// the expected profile. Validation is all-or-nothing: any single mismatch
// rejects the image with no partial recovery.
func checkHeader(hdr *elfHeader) error {
	if models.Memcmp(hdr.Ident[:], elfMagic, len(elfMagic)) != 0 ||
		hdr.Ident[eiClass] != elfClass64 ||
		hdr.Ident[eiData] != elfDataLSB ||
		hdr.Type != etExec ||
		hdr.Machine != emX86_64 ||
		hdr.Version != evCurrent {
		return errors.WithStack(ErrBadHeader)
	}
	return nil
}
