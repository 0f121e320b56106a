package main

import "crime-insights-go/internal/cli"

func main() {
	cli.Execute()
}
