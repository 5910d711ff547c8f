package models

import (
	"fmt"
	"os"
)

// Default on-disk locations of the kernel image and console font, relative
// to the boot volume root.
const (
	DefaultKernelDir  = "kernel"
	DefaultKernelFile = "main.elf"
	DefaultFontDir    = "files"
	DefaultFontFile   = "main.psf"
)

type Config struct {
	KernelDir  string
	KernelFile string
	FontDir    string
	FontFile   string

	// ZeroBSS clears the [filesz, memsz) tail of each placed segment.
	// The original loader leaves that region uninitialized, so this
	// defaults to off; turning it on changes observable kernel behavior.
	ZeroBSS bool

	Verbose bool

	// Logf receives the per-stage status lines. These are diagnostic
	// only, nothing downstream parses them.
	Logf func(format string, args ...interface{})
}

func (c *Config) Init() *Config {
	if c == nil {
		c = &Config{}
	}
	if c.KernelDir == "" {
		c.KernelDir = DefaultKernelDir
	}
	if c.KernelFile == "" {
		c.KernelFile = DefaultKernelFile
	}
	if c.FontDir == "" {
		c.FontDir = DefaultFontDir
	}
	if c.FontFile == "" {
		c.FontFile = DefaultFontFile
	}
	if c.Logf == nil {
		c.Logf = func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}
	return c
}
