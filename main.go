package main

import "github.com/sentibet/sentibet/cmd"

func main() {
	cmd.Execute()
}
