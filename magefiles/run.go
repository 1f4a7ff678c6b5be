//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Renders one gallery scene with the default configuration.
func (Run) Scene(name string) error {
	fmt.Printf("Run scene %s...\n", name)
	if _, err := executeCmd("go", withArgs("run", ".", "-scene", name), withStream()); err != nil {
		return err
	}
	return nil
}

// Renders one gallery scene using a configuration file.
func (Run) Config(path string) error {
	if _, err := executeCmd("go", withArgs("run", ".", "-config", path), withStream()); err != nil {
		return err
	}
	return nil
}

// Lists the gallery scenes.
func (Run) List() error {
	_, err := executeCmd("go", withArgs("run", ".", "-list"), withStream())
	return err
}
