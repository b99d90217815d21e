package main

import "github.com/jjenkins/regmonitor/cmd"

func main() {
	cmd.Execute()
}
