package loader

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/corruptos/bootloader/go/efi"
)

func unpack(r io.Reader, i interface{}) error {
	return struc.UnpackWithOrder(r, i, binary.LittleEndian)
}

// readStruct reads exactly one fixed-size structure from the file's current
// position.
func readStruct(f efi.File, i interface{}) error {
	size, err := struc.Sizeof(i)
	if err != nil {
		return errors.WithStack(err)
	}
	buf := make([]byte, size)
	if err := efi.ReadExact(f, buf); err != nil {
		return err
	}
	return unpack(bytes.NewReader(buf), i)
}
