package boot

import (
	"github.com/pkg/errors"

	"github.com/corruptos/bootloader/go/efi"
	"github.com/corruptos/bootloader/go/models"
)

// DiscoverFramebuffer locates the first graphics output protocol instance
// and captures its current mode verbatim. No mode negotiation happens: the
// firmware's pre-selected mode is the one handed to the kernel. A platform
// without an adapter is a hard failure, there is no software fallback.
func DiscoverFramebuffer(bs efi.BootServices) (*models.Framebuffer, error) {
	gop, err := bs.LocateGraphicsOutput()
	if err != nil {
		return nil, errors.Wrap(err, "unable to locate graphics output protocol")
	}
	mode := gop.Mode
	return &models.Framebuffer{
		Base:              mode.FrameBufferBase,
		Size:              mode.FrameBufferSize,
		Width:             mode.Info.HorizontalResolution,
		Height:            mode.Info.VerticalResolution,
		PixelsPerScanline: mode.Info.PixelsPerScanLine,
	}, nil
}
