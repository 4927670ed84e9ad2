package main

import "domain0/d0ctl/cmd"

func main() {
	cmd.Execute()
}
