package main

import "github.com/ValentinKolb/dCount/cmd"

func main() {
	cmd.Execute()
}
