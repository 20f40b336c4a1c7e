package main

import "github.com/lepinkainen/bookshelf/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
