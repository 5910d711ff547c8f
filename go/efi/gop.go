package efi

// ModeInfo mirrors EFI_GRAPHICS_OUTPUT_MODE_INFORMATION for the fields the
// loader consumes.
type ModeInfo struct {
	HorizontalResolution uint32
	VerticalResolution   uint32
	PixelsPerScanLine    uint32
}

// Mode mirrors EFI_GRAPHICS_OUTPUT_PROTOCOL_MODE.
type Mode struct {
	Info            *ModeInfo
	FrameBufferBase uint64
	FrameBufferSize uint64
}

// GraphicsOutput is the graphics output protocol instance located through
// the firmware. The current mode is used verbatim; the loader performs no
// mode negotiation.
type GraphicsOutput struct {
	Mode *Mode
}
