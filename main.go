package main

import "github.com/Taycanstar/glancenote/cmd"

func main() {
	cmd.Execute()
}
