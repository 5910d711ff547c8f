// Package efitest provides a RAM-backed implementation of the firmware
// service boundary for tests and the host-side harness. It plays the role
// the real firmware plays on hardware: it owns physical memory, the boot
// volume and the console, and it observes the control transfer.
package efitest

import (
	"io/fs"
	"path"

	"github.com/pkg/errors"

	"github.com/corruptos/bootloader/go/efi"
	"github.com/corruptos/bootloader/go/models"
)

// PageAlloc records one AllocatePages request.
type PageAlloc struct {
	Addr  uint64
	Pages int
}

// Firmware implements efi.BootServices over an fs.FS boot volume.
type Firmware struct {
	RAM    *RAM
	Volume fs.FS

	// Graphics is the located graphics output protocol; nil simulates a
	// platform with no display adapter.
	Graphics *efi.GraphicsOutput

	// Entry, when set, is invoked by StartKernel in place of a real
	// control transfer.
	Entry func(entry uint64, info models.BootInfo) error

	// PoolBase is where pool allocations are placed, growing upward.
	PoolBase uint64

	// Allocs records every AllocatePages request, including failed ones.
	Allocs    []PageAlloc
	Cleared   bool
	Started   bool
	LastEntry uint64
	LastInfo  models.BootInfo

	poolNext uint64
}

// DefaultGraphics is the mode reported by firmwares built with New.
func DefaultGraphics() *efi.GraphicsOutput {
	return &efi.GraphicsOutput{
		Mode: &efi.Mode{
			Info: &efi.ModeInfo{
				HorizontalResolution: 1280,
				VerticalResolution:   720,
				PixelsPerScanLine:    1280,
			},
			FrameBufferBase: 0x8000_0000,
			FrameBufferSize: 1280 * 720 * 4,
		},
	}
}

func New(volume fs.FS) *Firmware {
	return &Firmware{
		RAM:      &RAM{},
		Volume:   volume,
		Graphics: DefaultGraphics(),
		PoolBase: 0x7e00_0000,
	}
}

func (f *Firmware) LocateGraphicsOutput() (*efi.GraphicsOutput, error) {
	if f.Graphics == nil {
		return nil, errors.WithStack(efi.ErrUnsupported)
	}
	return f.Graphics, nil
}

func (f *Firmware) AllocatePool(size uint64) (models.PoolBuffer, error) {
	if f.poolNext == 0 {
		f.poolNext = f.PoolBase
	}
	addr := f.poolNext
	// keep pool allocations 8-byte aligned
	f.poolNext += (size + 7) &^ 7
	data, err := f.RAM.Map(addr, size)
	if err != nil {
		return models.PoolBuffer{}, errors.Wrap(efi.ErrOutOfResources, err.Error())
	}
	return models.PoolBuffer{Addr: addr, Data: data}, nil
}

func (f *Firmware) AllocatePages(allocType, memType, pages int, addr uint64) ([]byte, error) {
	f.Allocs = append(f.Allocs, PageAlloc{Addr: addr, Pages: pages})
	if allocType != efi.AllocateAddress {
		return nil, errors.WithStack(efi.ErrUnsupported)
	}
	if pages <= 0 {
		return nil, errors.WithStack(efi.ErrOutOfResources)
	}
	data, err := f.RAM.Map(addr, uint64(pages)*efi.PageSize)
	if err != nil {
		return nil, errors.Wrap(efi.ErrOutOfResources, err.Error())
	}
	// fresh pages hold garbage, not zeroes, so an unzeroed bss tail is
	// observable in tests
	for i := range data {
		data[i] = 0xa5
	}
	return data, nil
}

// Reserve marks a physical range as already in use, so fixed-address
// allocations against it collide.
func (f *Firmware) Reserve(addr, size uint64) error {
	_, err := f.RAM.Map(addr, size)
	return err
}

func (f *Firmware) OpenVolume() (efi.File, error) {
	return &fsFile{fsys: f.Volume, path: ".", dir: true}, nil
}

func (f *Firmware) ClearScreen() error {
	f.Cleared = true
	return nil
}

func (f *Firmware) StartKernel(entry uint64, info models.BootInfo) error {
	f.Started = true
	f.LastEntry = entry
	f.LastInfo = info
	if f.Entry != nil {
		return f.Entry(entry, info)
	}
	return nil
}

// fsFile adapts an fs.FS entry to the firmware file protocol. Regular files
// are read into memory on open; Read then behaves like EFI_FILE_PROTOCOL.Read
// and returns short counts at end of file.
type fsFile struct {
	fsys fs.FS
	path string
	dir  bool
	data []byte
	pos  uint64
}

func (f *fsFile) Open(name string) (efi.File, error) {
	if !f.dir {
		return nil, errors.Errorf("%s: not a directory", f.path)
	}
	p := path.Join(f.path, name)
	info, err := fs.Stat(f.fsys, p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return &fsFile{fsys: f.fsys, path: p, dir: true}, nil
	}
	data, err := fs.ReadFile(f.fsys, p)
	if err != nil {
		return nil, err
	}
	return &fsFile{fsys: f.fsys, path: p, data: data}, nil
}

func (f *fsFile) Read(p []byte) (int, error) {
	if f.dir {
		return 0, errors.Errorf("%s: is a directory", f.path)
	}
	if f.pos >= uint64(len(f.data)) {
		return 0, nil
	}
	n := copy(p, f.data[f.pos:])
	f.pos += uint64(n)
	return n, nil
}

func (f *fsFile) SetPosition(position uint64) error {
	if f.dir {
		return errors.Errorf("%s: is a directory", f.path)
	}
	f.pos = position
	return nil
}

func (f *fsFile) Info() (*efi.FileInfo, error) {
	return &efi.FileInfo{
		FileName: path.Base(f.path),
		FileSize: uint64(len(f.data)),
	}, nil
}
