package main

import "github.com/inkhost/b2store/internal/cmd"

func main() {
	cmd.Execute()
}
