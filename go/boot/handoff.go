package boot

import (
	"github.com/pkg/errors"

	"github.com/corruptos/bootloader/go/efi"
	"github.com/corruptos/bootloader/go/models"
)

// BuildBootInfo aggregates the three pipeline outputs into the hand-off
// descriptor. Pure aggregation: all inputs must already be validated and
// non-nil, absence aborts the boot upstream before this is reached.
func BuildBootInfo(fb *models.Framebuffer, font *models.PSF1Font, img *models.KernelImage) *models.BootInfo {
	return &models.BootInfo{
		FramebufferBase:   fb.Base,
		FramebufferSize:   fb.Size,
		Width:             fb.Width,
		Height:            fb.Height,
		PixelsPerScanline: fb.PixelsPerScanline,

		FontHeader: font.HeaderRaw.Addr,
		FontGlyphs: font.Glyphs.Addr,

		KernelSize:  img.Size,
		KernelStart: img.Start,
		KernelEnd:   img.End,
	}
}

// Transfer clears the display and invokes the kernel entry point with the
// descriptor passed by value. This is the program's one-way exit: on real
// firmware StartKernel does not return, and the loader has nothing
// meaningful left to execute if it somehow does.
func Transfer(bs efi.BootServices, info *models.BootInfo, entry uint64) error {
	if err := bs.ClearScreen(); err != nil {
		return errors.Wrap(err, "clear screen")
	}
	if err := bs.StartKernel(entry, *info); err != nil {
		return errors.Wrap(err, "control transfer")
	}
	return nil
}
