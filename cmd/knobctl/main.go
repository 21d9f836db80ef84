/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/tmarstad/confknob/cmd/knobctl/cmd"
)

func main() {
	cmd.Execute()
}
