//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds and runs the host with config/app.toml.
func (Run) Host() error {
	mg.Deps(Build.Host)
	fmt.Println("Run host...")
	if _, err := executeCmd("bin/setmaterial", withArgs("-config", "config/app.toml"), withStream()); err != nil {
		return err
	}
	return nil
}
