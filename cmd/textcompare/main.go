package main

import "github.com/mcoot/textcompare/internal/cli"

func main() {
	cli.Execute()
}
