package main

import "github.com/liamg/arpsweep/cmd"

func main() {
	cmd.Execute()
}
