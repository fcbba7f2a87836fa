package main

import "taskcade/cmd/tc/root"

func main() {
	root.Execute()
}
