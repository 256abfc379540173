// Package main provides the entry point for the pagecursor CLI.
package main

import "github.com/hupe1980/pagecursor/internal/cli"

func main() {
	cli.Execute()
}
