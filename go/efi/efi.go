// Package efi declares the firmware service boundary the loader runs
// against: protocol discovery, pool and page allocation, the file protocol
// and the console. The loader only consumes these; platforms (or the test
// firmware in efitest) provide them.
package efi

import (
	"github.com/pkg/errors"

	"github.com/corruptos/bootloader/go/models"
)

const PageSize = 0x1000

// EFI_ALLOCATE_TYPE
const (
	AllocateAnyPages = iota
	AllocateMaxAddress
	AllocateAddress
	MaxAllocateType
)

// EFI_MEMORY_TYPE
const (
	EfiReservedMemoryType = iota
	EfiLoaderCode
	EfiLoaderData
	EfiBootServicesCode
	EfiBootServicesData
	EfiRuntimeServicesCode
	EfiRuntimeServicesData
	EfiConventionalMemory
	EfiUnusableMemory
	EfiACPIReclaimMemory
	EfiACPIMemoryNVS
	EfiMemoryMappedIO
	EfiMemoryMappedIOPortSpace
	EfiPalCode
	EfiPersistentMemory
)

// Status errors mirroring the EFI status codes the loader can observe.
// Every one of them is terminal for the boot attempt.
var (
	ErrLoadError      = errors.New("load error")
	ErrUnsupported    = errors.New("unsupported")
	ErrOutOfResources = errors.New("out of resources")
	ErrDeviceError    = errors.New("device error")
	ErrNotFound       = errors.New("not found")
)

// BootServices is the subset of firmware services the loader calls. Every
// method is a blocking, synchronous call: it either completes or the whole
// pipeline aborts.
type BootServices interface {
	// LocateGraphicsOutput finds the first graphics output protocol
	// instance, or ErrUnsupported when the platform has none.
	LocateGraphicsOutput() (*GraphicsOutput, error)

	// AllocatePool allocates size bytes of EfiLoaderData pool memory.
	AllocatePool(size uint64) (models.PoolBuffer, error)

	// AllocatePages allocates pages of physical memory. With
	// AllocateAddress the region is pinned at addr; a collision with
	// already-reserved memory is ErrOutOfResources, never relocated.
	// The returned slice aliases the reserved region.
	AllocatePages(allocType, memType, pages int, addr uint64) ([]byte, error)

	// OpenVolume opens the root directory of the boot volume.
	OpenVolume() (File, error)

	// ClearScreen resets the console to a known state.
	ClearScreen() error

	// StartKernel transfers control to entry with the descriptor passed
	// by value. On real firmware this call does not return; an error is
	// a transfer failure. Test implementations return nil after invoking
	// their entry hook.
	StartKernel(entry uint64, info models.BootInfo) error
}
