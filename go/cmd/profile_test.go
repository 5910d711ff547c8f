package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/corruptos/bootloader/go/efi/efitest"
	"github.com/corruptos/bootloader/go/models"
)

const profileYAML = `
kernel: boot/kernel.elf
font: boot/console.psf
zero_bss: true
framebuffer:
  base: 0x90000000
  width: 1024
  height: 768
reserved:
  - start: 0x100000
    size: 0x1000
`

func TestLoadProfile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "boot.yaml")
	if err := os.WriteFile(p, []byte(profileYAML), 0644); err != nil {
		t.Fatal(err)
	}
	profile, err := LoadProfile(p)
	if err != nil {
		t.Fatal(err)
	}

	config := (&models.Config{}).Init()
	fw := efitest.New(fstest.MapFS{})
	if err := profile.Apply(config, fw); err != nil {
		t.Fatal(err)
	}
	if config.KernelDir != "boot" || config.KernelFile != "kernel.elf" {
		t.Errorf("kernel %s/%s", config.KernelDir, config.KernelFile)
	}
	if config.FontDir != "boot" || config.FontFile != "console.psf" {
		t.Errorf("font %s/%s", config.FontDir, config.FontFile)
	}
	if !config.ZeroBSS {
		t.Error("zero_bss not applied")
	}

	mode := fw.Graphics.Mode
	if mode.FrameBufferBase != 0x9000_0000 {
		t.Errorf("base %#x", mode.FrameBufferBase)
	}
	if mode.Info.PixelsPerScanLine != 1024 {
		t.Errorf("stride %d defaulted wrong", mode.Info.PixelsPerScanLine)
	}
	if mode.FrameBufferSize != 1024*768*4 {
		t.Errorf("size %d", mode.FrameBufferSize)
	}

	// the reserved range now collides with fixed-address allocation
	if _, err := fw.RAM.Map(0x100000, 0x1000); err == nil {
		t.Error("reserved region not mapped")
	}
}

func TestSplitVolumePath(t *testing.T) {
	for _, c := range []struct{ in, dir, file string }{
		{"kernel/main.elf", "kernel", "main.elf"},
		{"main.elf", ".", "main.elf"},
		{"a/b/c.psf", "a/b", "c.psf"},
	} {
		dir, file := splitVolumePath(c.in)
		if dir != c.dir || file != c.file {
			t.Errorf("split(%q) = %q, %q", c.in, dir, file)
		}
	}
}
