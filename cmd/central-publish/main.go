package main

import "maven-central-publish/internal/cli"

func main() {
	cli.Execute()
}
