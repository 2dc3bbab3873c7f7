package main

import "github.com/bjarlestam/credit-scout/internal/cli"

func main() {
	cli.Main()
}
