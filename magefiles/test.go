//go:build mage

package main

// Runs every package test with the race detector.
func Test() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}
