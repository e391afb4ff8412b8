package main

import "github.com/pageza/pantrychef/backend/cmd/proposectl/cmd"

func main() {
	cmd.Execute()
}
