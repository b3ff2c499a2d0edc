package main

import "github.com/theopenlane/shelfcheck/cmd"

func main() {
	cmd.Execute()
}
