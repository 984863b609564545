package main

import "github.com/jsphweid/pianovision/cmd"

func main() {
	cmd.Execute()
}
