// Package cmd is the host-side harness: it runs the boot pipeline against a
// directory tree standing in for the boot volume, with the test firmware in
// place of real boot services, and prints the hand-off descriptor instead of
// jumping to it. The on-firmware loader itself takes no arguments; only this
// harness does.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/corruptos/bootloader/go/boot"
	"github.com/corruptos/bootloader/go/efi/efitest"
	"github.com/corruptos/bootloader/go/models"
)

type BootCmd struct {
	Config *models.Config
	Flags  *flag.FlagSet

	Firmware *efitest.Firmware
}

func NewBootCmd() *BootCmd {
	return &BootCmd{
		Config: &models.Config{},
		Flags:  flag.NewFlagSet("stage2", flag.ExitOnError),
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// PrintError prints an error and, when a pkg/errors stack is attached, the
// frames up to main.
func (c *BootCmd) PrintError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	if err, ok := err.(stackTracer); ok {
		for _, f := range err.StackTrace() {
			fmt.Fprintf(os.Stderr, "  %v %n()\n", f, f)
			if fmt.Sprintf("%n", f) == "main.main" {
				break
			}
		}
	}
}

func (c *BootCmd) Run(argv []string) int {
	fs := c.Flags
	root := fs.String("root", ".", "directory standing in for the boot volume root")
	profilePath := fs.String("profile", "", "optional yaml boot profile")
	kernel := fs.String("kernel", "", "kernel image path under the volume root")
	font := fs.String("font", "", "console font path under the volume root")
	zeroBSS := fs.Bool("zero-bss", false, "zero the [filesz, memsz) tail of placed segments")
	verbose := fs.Bool("v", false, "verbose status output")
	fs.Parse(argv[1:])

	c.Config.ZeroBSS = *zeroBSS
	c.Config.Verbose = *verbose

	fw := efitest.New(os.DirFS(*root))
	c.Firmware = fw

	if *profilePath != "" {
		profile, err := LoadProfile(*profilePath)
		if err != nil {
			c.PrintError(err)
			return 1
		}
		if err := profile.Apply(c.Config, fw); err != nil {
			c.PrintError(err)
			return 1
		}
	}
	// flags win over the profile
	if *kernel != "" {
		c.Config.KernelDir, c.Config.KernelFile = splitVolumePath(*kernel)
	}
	if *font != "" {
		c.Config.FontDir, c.Config.FontFile = splitVolumePath(*font)
	}

	fw.Entry = func(entry uint64, info models.BootInfo) error {
		fmt.Printf("hand-off to entry %#x\n", entry)
		fmt.Printf("  framebuffer: %dx%d stride %d, %d bytes at %#x\n",
			info.Width, info.Height, info.PixelsPerScanline,
			info.FramebufferSize, info.FramebufferBase)
		fmt.Printf("  font: header %#x, glyphs %#x\n", info.FontHeader, info.FontGlyphs)
		fmt.Printf("  kernel: size %#x, %#x-%#x\n",
			info.KernelSize, info.KernelStart, info.KernelEnd)
		return nil
	}

	if err := boot.Run(fw, c.Config); err != nil {
		c.PrintError(err)
		return 1
	}
	if c.Config.Verbose {
		for _, a := range fw.Allocs {
			fmt.Printf("  placed %d page(s) at %#x\n", a.Pages, a.Addr)
		}
	}
	return 0
}

func Main() {
	os.Exit(NewBootCmd().Run(os.Args))
}
