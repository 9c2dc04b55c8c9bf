package main

import "github.com/pders01/lockview/cmd"

func main() {
	cmd.Execute()
}
