package main

import "github.com/bartdeboer/mtsconv/cmd"

func main() {
	cmd.Execute()
}
