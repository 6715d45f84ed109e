package main

import "github.com/jsphweid/midibars/cmd"

func main() {
	cmd.Execute()
}
