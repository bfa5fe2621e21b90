package main

import "excel-comparator/cmd"

func main() {
	cmd.Execute()
}
