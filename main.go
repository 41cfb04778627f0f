package main

import (
	"embed"
	"fmt"
	"os"
)

//go:embed assets/*
var content embed.FS

var version = "dev"

func main() {
	if err := NewRootCmd(content).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
