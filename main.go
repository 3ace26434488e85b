package main

import "adminrag/cmd"

func main() {
	cmd.Execute()
}
