package main

import "github.com/ElsevierSoftwareX/SOFTX-D-21-00131/cmd"

func main() {
	cmd.Execute()
}
