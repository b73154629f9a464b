package main

import (
	"os"

	"github.com/materialdesk/materialdesk/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
