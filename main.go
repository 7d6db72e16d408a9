package main

import "github.com/vechain/walletkit/cmd"

func main() {
	cmd.Execute()
}
