package psf

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/pkg/errors"

	"github.com/corruptos/bootloader/go/efi"
	"github.com/corruptos/bootloader/go/efi/efitest"
	"github.com/corruptos/bootloader/go/models"
)

func fontVolume(data []byte) *efitest.Firmware {
	return efitest.New(fstest.MapFS{
		"files/main.psf": &fstest.MapFile{Data: data},
	})
}

func makeFont(mode, charsize byte, glyphBytes int) []byte {
	data := []byte{0x36, 0x04, mode, charsize}
	glyphs := make([]byte, glyphBytes)
	for i := range glyphs {
		glyphs[i] = byte(i * 7)
	}
	return append(data, glyphs...)
}

func quiet() *models.Config {
	return (&models.Config{Logf: func(string, ...interface{}) {}}).Init()
}

func load(t *testing.T, fw *efitest.Firmware) (*models.PSF1Font, error) {
	t.Helper()
	dir, err := efi.OpenFile(fw, nil, "files")
	if err != nil {
		t.Fatal(err)
	}
	return LoadFont(fw, dir, "main.psf", quiet())
}

func TestLoadFont(t *testing.T) {
	raw := makeFont(0, 16, 256*16)
	fw := fontVolume(raw)
	font, err := load(t, fw)
	if err != nil {
		t.Fatal(err)
	}
	if font.Header.Charsize != 16 || font.Header.Mode != 0 {
		t.Errorf("header %+v", font.Header)
	}
	if len(font.Glyphs.Data) != 4096 {
		t.Fatalf("glyph buffer %d bytes", len(font.Glyphs.Data))
	}
	if !bytes.Equal(font.Glyphs.Data, raw[4:]) {
		t.Error("glyph contents differ from file")
	}
	if !bytes.Equal(font.HeaderRaw.Data, raw[:4]) {
		t.Error("pool header copy differs from file")
	}
	if font.HeaderRaw.Addr == 0 || font.Glyphs.Addr == 0 {
		t.Error("pool addresses unset")
	}
}

func TestLoadFont512Mode(t *testing.T) {
	fw := fontVolume(makeFont(1, 8, 512*8))
	font, err := load(t, fw)
	if err != nil {
		t.Fatal(err)
	}
	if font.Header.GlyphCount() != 512 {
		t.Errorf("glyph count %d", font.Header.GlyphCount())
	}
	if len(font.Glyphs.Data) != 4096 {
		t.Errorf("glyph buffer %d bytes", len(font.Glyphs.Data))
	}
}

func TestBadMagic(t *testing.T) {
	raw := makeFont(0, 16, 256*16)
	raw[1] = 0x05
	if _, err := load(t, fontVolume(raw)); errors.Cause(err) != ErrBadMagic {
		t.Fatalf("want ErrBadMagic, got %v", err)
	}
}

func TestTruncatedGlyphs(t *testing.T) {
	// header declares 4096 glyph bytes, file carries 100
	if _, err := load(t, fontVolume(makeFont(0, 16, 100))); errors.Cause(err) != efi.ErrShortRead {
		t.Fatalf("want ErrShortRead, got %v", err)
	}
}

func TestTruncatedHeader(t *testing.T) {
	if _, err := load(t, fontVolume([]byte{0x36, 0x04})); errors.Cause(err) != efi.ErrShortRead {
		t.Fatalf("want ErrShortRead, got %v", err)
	}
}

func TestMissingFont(t *testing.T) {
	fw := efitest.New(fstest.MapFS{})
	if _, err := LoadFont(fw, nil, "main.psf", quiet()); errors.Cause(err) != efi.ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
