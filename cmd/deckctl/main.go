// Package main implements deckctl, a command-line tool for exporting and
// importing the flashcard and document collections of a flashdeck server.
//
// Usage:
//
//	deckctl cards download --file cards.json
//	deckctl cards upload --file cards.json
//	deckctl documents download --file docs.json
//	deckctl documents upload --file docs.json
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("deckctl", pflag.ExitOnError)
	apiURL := flags.String("api-url", "http://localhost:8080", "Base URL of the flashdeck server")
	apiKey := flags.String("api-key", os.Getenv("FLASHDECK_AUTH_API_KEY"), "API key for authentication")
	file := flags.String("file", "", "Path of the export file to read or write")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: deckctl <cards|documents> <download|upload> [flags]\n\nFlags:\n")
		flags.PrintDefaults()
	}

	if len(os.Args) < 3 {
		flags.Usage()
		os.Exit(2)
	}

	resource, action := os.Args[1], os.Args[2]
	if err := flags.Parse(os.Args[3:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		os.Exit(2)
	}
	if *apiKey == "" {
		fmt.Fprintln(os.Stderr, "Error: --api-key or FLASHDECK_AUTH_API_KEY is required")
		os.Exit(2)
	}

	client := newClient(*apiURL, *apiKey)

	var err error
	switch {
	case resource == "cards" && action == "download":
		err = client.downloadCards(*file)
	case resource == "cards" && action == "upload":
		err = client.uploadCards(*file)
	case resource == "documents" && action == "download":
		err = client.downloadDocuments(*file)
	case resource == "documents" && action == "upload":
		err = client.uploadDocuments(*file)
	default:
		flags.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
