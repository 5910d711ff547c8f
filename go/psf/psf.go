// Package psf loads PSF1 fixed-width bitmap console fonts: a 4-byte header
// followed by a flat glyph table.
package psf

import (
	"bytes"
	"encoding/binary"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/corruptos/bootloader/go/efi"
	"github.com/corruptos/bootloader/go/models"
)

var psf1Magic = []byte{0x36, 0x04}

const headerSize = 4

var ErrBadMagic = errors.New("invalid font magic")

// LoadFont opens path under dir and reads the font into pool memory. The
// glyph-buffer size is computed from the header alone; if the file turns out
// shorter than the header claims, the resulting short read is the error.
func LoadFont(bs efi.BootServices, dir efi.File, path string, config *models.Config) (*models.PSF1Font, error) {
	config = config.Init()

	f, err := efi.OpenFile(bs, dir, path)
	if err != nil {
		return nil, errors.Wrapf(err, "font %q", path)
	}

	hdrPool, err := bs.AllocatePool(headerSize)
	if err != nil {
		return nil, errors.Wrap(err, "font header")
	}
	if err := efi.ReadExact(f, hdrPool.Data); err != nil {
		return nil, errors.Wrap(err, "font header")
	}

	font := &models.PSF1Font{HeaderRaw: hdrPool}
	if err := struc.UnpackWithOrder(bytes.NewReader(hdrPool.Data), &font.Header, binary.LittleEndian); err != nil {
		return nil, errors.Wrap(err, "font header")
	}
	if models.Memcmp(font.Header.Magic[:], psf1Magic, len(psf1Magic)) != 0 {
		return nil, errors.WithStack(ErrBadMagic)
	}

	config.Logf("font %q: mode %d, %d glyphs of %d bytes",
		path, font.Header.Mode, font.Header.GlyphCount(), font.Header.Charsize)

	if err := f.SetPosition(headerSize); err != nil {
		return nil, errors.Wrap(err, "glyph table")
	}
	glyphs, err := bs.AllocatePool(uint64(font.Header.GlyphBufferSize()))
	if err != nil {
		return nil, errors.Wrap(err, "glyph table")
	}
	if err := efi.ReadExact(f, glyphs.Data); err != nil {
		return nil, errors.Wrap(err, "glyph table")
	}
	font.Glyphs = glyphs
	return font, nil
}
