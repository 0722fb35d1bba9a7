package main

import "github.com/OpenTraceLab/dxf2elmt/cmd/dxf2elmt/cmd"

func main() {
	cmd.Execute()
}
