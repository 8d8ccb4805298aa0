package main

import "label-ingest/cmd"

func main() {
	cmd.Execute()
}
