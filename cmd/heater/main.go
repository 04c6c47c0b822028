package main

import "github.com/OpenTraceLab/OpenTraceHeater/cmd/heater/cmd"

func main() {
	cmd.Execute()
}
