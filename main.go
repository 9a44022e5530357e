package main

import "github.com/KaramelBytes/tidycsv/cmd"

func main() {
	cmd.Execute()
}
