package main

import "github.com/qrave1/RoomRadio/cmd"

func main() {
	cmd.Execute()
}
