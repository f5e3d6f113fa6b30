/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/xybyte/journalback/cmd/journalback/cmd"

func main() {
	cmd.Execute()
}
