package loader

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/corruptos/bootloader/go/efi"
	"github.com/corruptos/bootloader/go/models"
)

// LoadKernel opens path under dir, validates the ELF64 header, reads the
// program-header table into pool memory and places every LOAD segment at its
// declared physical address.
//
// The returned image's Start/End are the bounds of the pool-resident
// program-header table, passed through to the hand-off descriptor verbatim.
func LoadKernel(bs efi.BootServices, dir efi.File, path string, config *models.Config) (*models.KernelImage, error) {
	config = config.Init()

	f, err := efi.OpenFile(bs, dir, path)
	if err != nil {
		return nil, errors.Wrapf(err, "kernel image %q", path)
	}

	config.Logf("reading kernel header")
	var hdr elfHeader
	if err := readStruct(f, &hdr); err != nil {
		return nil, errors.Wrap(err, "kernel header")
	}

	config.Logf("verifying kernel header")
	if err := checkHeader(&hdr); err != nil {
		return nil, err
	}
	stride := int(hdr.Phentsize)
	if stride < phdrMinSize {
		return nil, errors.Wrapf(ErrBadHeader, "program header entry size %d", stride)
	}

	config.Logf("reading program headers")
	if err := f.SetPosition(hdr.Phoff); err != nil {
		return nil, errors.Wrap(err, "program header table")
	}
	tableSize := uint64(hdr.Phnum) * uint64(hdr.Phentsize)
	table, err := bs.AllocatePool(tableSize)
	if err != nil {
		return nil, errors.Wrap(err, "program header table")
	}
	if err := efi.ReadExact(f, table.Data); err != nil {
		return nil, errors.Wrap(err, "program header table")
	}

	img := &models.KernelImage{
		Entry: hdr.Entry,
		Size:  tableSize,
		Start: table.Addr,
		End:   table.End(),
	}

	// Iterate by the declared entry size so larger future entries are
	// tolerated; only LOAD entries are interpreted.
	for off := 0; off+stride <= len(table.Data); off += stride {
		var ph elfProgHeader
		if err := unpack(bytes.NewReader(table.Data[off:off+stride]), &ph); err != nil {
			return nil, errors.Wrap(err, "program header entry")
		}
		if ph.Type != ptLoad {
			continue
		}
		if err := place(bs, f, &ph, config); err != nil {
			return nil, err
		}
		img.Segments = append(img.Segments, models.Segment{
			Start: ph.Paddr,
			End:   ph.Paddr + ph.Memsz,
		})
	}
	return img, nil
}

// place reserves ceil(memsz/pagesize) pages pinned at the segment's physical
// address and copies the file-resident bytes into the region base. The
// [filesz, memsz) tail is left untouched unless config.ZeroBSS is set; see
// models.Config.
func place(bs efi.BootServices, f efi.File, ph *elfProgHeader, config *models.Config) error {
	if ph.Filesz > ph.Memsz {
		return errors.Wrapf(ErrBadHeader, "segment at %#x: filesz %#x > memsz %#x",
			ph.Paddr, ph.Filesz, ph.Memsz)
	}
	pages := int((ph.Memsz + efi.PageSize - 1) / efi.PageSize)
	region, err := bs.AllocatePages(efi.AllocateAddress, efi.EfiLoaderData, pages, ph.Paddr)
	if err != nil {
		return errors.Wrapf(err, "segment at %#x", ph.Paddr)
	}
	if err := f.SetPosition(ph.Off); err != nil {
		return errors.Wrapf(err, "segment at %#x", ph.Paddr)
	}
	if ph.Filesz > 0 {
		if err := efi.ReadExact(f, region[:ph.Filesz]); err != nil {
			return errors.Wrapf(err, "segment at %#x", ph.Paddr)
		}
	}
	if config.ZeroBSS {
		for i := ph.Filesz; i < ph.Memsz; i++ {
			region[i] = 0
		}
	}
	return nil
}
