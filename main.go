package main

import "github.com/redbtn-io/chatflow/cmd"

func main() {
	cmd.Execute()
}
