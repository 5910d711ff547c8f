package cmd

import (
	"os"
	"path"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/corruptos/bootloader/go/efi"
	"github.com/corruptos/bootloader/go/efi/efitest"
	"github.com/corruptos/bootloader/go/models"
)

// Profile declares a harness run: which files to boot, the framebuffer mode
// the simulated firmware reports, and physical regions pre-reserved to
// provoke fixed-address collisions.
type Profile struct {
	Kernel  string `yaml:"kernel"`
	Font    string `yaml:"font"`
	ZeroBSS bool   `yaml:"zero_bss"`

	Framebuffer *FramebufferProfile `yaml:"framebuffer"`
	Reserved    []RegionProfile     `yaml:"reserved"`
}

type FramebufferProfile struct {
	Base   uint64 `yaml:"base"`
	Size   uint64 `yaml:"size"`
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
	Stride uint32 `yaml:"stride"`
}

type RegionProfile struct {
	Start uint64 `yaml:"start"`
	Size  uint64 `yaml:"size"`
}

func LoadProfile(p string) (*Profile, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.Wrapf(err, "profile %q", p)
	}
	profile := &Profile{}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, errors.Wrapf(err, "profile %q", p)
	}
	return profile, nil
}

func (p *Profile) Apply(config *models.Config, fw *efitest.Firmware) error {
	if p.Kernel != "" {
		config.KernelDir, config.KernelFile = splitVolumePath(p.Kernel)
	}
	if p.Font != "" {
		config.FontDir, config.FontFile = splitVolumePath(p.Font)
	}
	if p.ZeroBSS {
		config.ZeroBSS = true
	}
	if fb := p.Framebuffer; fb != nil {
		stride := fb.Stride
		if stride == 0 {
			stride = fb.Width
		}
		size := fb.Size
		if size == 0 {
			size = uint64(stride) * uint64(fb.Height) * 4
		}
		fw.Graphics = &efi.GraphicsOutput{
			Mode: &efi.Mode{
				Info: &efi.ModeInfo{
					HorizontalResolution: fb.Width,
					VerticalResolution:   fb.Height,
					PixelsPerScanLine:    stride,
				},
				FrameBufferBase: fb.Base,
				FrameBufferSize: size,
			},
		}
	}
	for _, r := range p.Reserved {
		if err := fw.Reserve(r.Start, r.Size); err != nil {
			return errors.Wrap(err, "reserved region")
		}
	}
	return nil
}

func splitVolumePath(s string) (dir, file string) {
	dir, file = path.Split(s)
	return path.Clean(dir), file
}
