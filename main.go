package main

import "tripshare/cmd"

func main() {
	cmd.Execute()
}
