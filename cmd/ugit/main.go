package main

import "github.com/javanhut/ugit/cli"

func main() {
	cli.Execute()
}
