package main

import "github.com/indradhanu/indradhanu/cmd"

func main() {
	cmd.Execute()
}
