package main

import (
	"os"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
