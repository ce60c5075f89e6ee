package main

import "adledger/cmd/client/cmd"

func main() {
	cmd.Execute()
}
