package main

import "github.com/Rorical/FolioChat/cmd"

func main() {
	cmd.Execute()
}
