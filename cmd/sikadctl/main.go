package main

import "github.com/shafwanhasyim/sikad-gg/internal/cli"

func main() {
	cli.Execute()
}
