package main

import "lifeforge/cmd/lf/root"

func main() {
	root.Execute()
}
