package main

import (
	"github.com/corruptos/bootloader/go/cmd"
)

func main() { cmd.Main() }
