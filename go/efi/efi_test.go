package efi_test

import (
	"testing"
	"testing/fstest"

	"github.com/pkg/errors"

	"github.com/corruptos/bootloader/go/efi"
	"github.com/corruptos/bootloader/go/efi/efitest"
)

func TestOpenFileRoot(t *testing.T) {
	fw := efitest.New(fstest.MapFS{
		"kernel/main.elf": &fstest.MapFile{Data: []byte("x")},
	})
	dir, err := efi.OpenFile(fw, nil, "kernel")
	if err != nil {
		t.Fatal(err)
	}
	f, err := efi.OpenFile(fw, dir, "main.elf")
	if err != nil {
		t.Fatal(err)
	}
	info, err := f.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.FileName != "main.elf" || info.FileSize != 1 {
		t.Errorf("info = %+v", info)
	}
}

func TestOpenFileNotFound(t *testing.T) {
	fw := efitest.New(fstest.MapFS{})
	// a missing directory and a missing file report the same way
	if _, err := efi.OpenFile(fw, nil, "kernel"); errors.Cause(err) != efi.ErrNotFound {
		t.Errorf("missing dir: %v", err)
	}
	dir, _ := efi.OpenFile(fw, nil, ".")
	if _, err := efi.OpenFile(fw, dir, "nope.elf"); errors.Cause(err) != efi.ErrNotFound {
		t.Errorf("missing file: %v", err)
	}
}

func TestReadExactShort(t *testing.T) {
	fw := efitest.New(fstest.MapFS{
		"f": &fstest.MapFile{Data: []byte{1, 2, 3}},
	})
	f, err := efi.OpenFile(fw, nil, "f")
	if err != nil {
		t.Fatal(err)
	}
	if err := efi.ReadExact(f, make([]byte, 3)); err != nil {
		t.Fatal(err)
	}
	if err := efi.ReadExact(f, make([]byte, 1)); errors.Cause(err) != efi.ErrShortRead {
		t.Errorf("want ErrShortRead, got %v", err)
	}
}
