package main

import "github.com/dmitrijs2005/docarchive/internal/server/command"

func main() {
	command.Execute()
}
