package main

import "wocabot/presentation/terminal"

func main() {
	terminal.Execute()
}
