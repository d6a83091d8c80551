package main

import "github.com/iamdantz/gemini-templates/cmd"

func main() {
	cmd.Execute()
}
