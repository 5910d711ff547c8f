package efi

import (
	"github.com/pkg/errors"
)

type FileInfo struct {
	FileName string
	FileSize uint64
}

// File is a read-only handle from the firmware's file protocol. Read fills p
// as far as the file allows, like EFI_FILE_PROTOCOL.Read: a short count with
// a nil error means the file ended early.
type File interface {
	Open(name string) (File, error)
	Read(p []byte) (int, error)
	SetPosition(position uint64) error
	Info() (*FileInfo, error)
}

// OpenFile opens path under dir. A nil dir resolves the boot volume root
// first. Any failure collapses to ErrNotFound: pre-boot callers cannot act
// on the distinction anyway.
func OpenFile(bs BootServices, dir File, path string) (File, error) {
	var err error
	if dir == nil {
		if dir, err = bs.OpenVolume(); err != nil {
			return nil, errors.WithStack(ErrNotFound)
		}
	}
	f, err := dir.Open(path)
	if err != nil {
		return nil, errors.WithStack(ErrNotFound)
	}
	return f, nil
}

// ErrShortRead reports that a protocol read returned fewer bytes than the
// caller asked for, which in this pipeline means a declared size field lied
// about the file contents.
var ErrShortRead = errors.New("short read")

// ReadExact fills p with a single protocol read and reports a short read as
// an error carrying how far it got.
func ReadExact(f File, p []byte) error {
	n, err := f.Read(p)
	if err != nil {
		return errors.Wrap(ErrDeviceError, err.Error())
	}
	if n != len(p) {
		return errors.Wrapf(ErrShortRead, "%d of %d bytes", n, len(p))
	}
	return nil
}
