// Package boot runs the stage-2 pipeline: place the kernel image, load the
// console font, discover the framebuffer, then hand control away. Every
// stage failure is terminal for the whole boot attempt; there is no retry
// and no partial hand-off.
package boot

import (
	"github.com/corruptos/bootloader/go/efi"
	"github.com/corruptos/bootloader/go/loader"
	"github.com/corruptos/bootloader/go/models"
	"github.com/corruptos/bootloader/go/psf"
)

// Run executes the full pipeline against the given firmware. It returns only
// on failure, or under test firmwares whose StartKernel returns after the
// entry hook.
func Run(bs efi.BootServices, config *models.Config) error {
	config = config.Init()
	config.Logf("corruptOS stage-2 loader")

	config.Logf("locating kernel image %s/%s", config.KernelDir, config.KernelFile)
	kernelDir, err := efi.OpenFile(bs, nil, config.KernelDir)
	if err != nil {
		return err
	}
	img, err := loader.LoadKernel(bs, kernelDir, config.KernelFile, config)
	if err != nil {
		return err
	}
	config.Logf("kernel loaded, entry %#x", img.Entry)

	config.Logf("loading font %s/%s", config.FontDir, config.FontFile)
	fontDir, err := efi.OpenFile(bs, nil, config.FontDir)
	if err != nil {
		return err
	}
	font, err := psf.LoadFont(bs, fontDir, config.FontFile, config)
	if err != nil {
		return err
	}

	fb, err := DiscoverFramebuffer(bs)
	if err != nil {
		return err
	}
	config.Logf("framebuffer %dx%d (stride %d) at %#x",
		fb.Width, fb.Height, fb.PixelsPerScanline, fb.Base)

	info := BuildBootInfo(fb, font, img)
	return Transfer(bs, info, img.Entry)
}
