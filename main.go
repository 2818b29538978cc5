package main

import "github.com/ishanKurnal/WanderLust/internal/commands"

func main() {
	commands.Execute()
}
