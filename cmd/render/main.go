package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fortuna/standings/internal/ingest/yahoo"
	"github.com/fortuna/standings/internal/standings"
)

const (
	appName    = "standings-render"
	appVersion = "1.0.0"
)

func main() {
	log.Printf("=== %s v%s ===", appName, appVersion)

	var (
		file      = flag.String("file", "", "Standings XML file to render (- for stdin)")
		league    = flag.String("league", "", "League key to fetch (e.g., nfl.l.12345)")
		baseURL   = flag.String("api-url", getEnv("YAHOO_API_BASE", yahoo.BaseURL), "Fantasy API base URL")
		token     = flag.String("token", getEnv("YAHOO_ACCESS_TOKEN", ""), "OAuth access token")
		styleName = flag.String("style", getEnv("MESSAGE_STYLE", "plain"), "Message style (plain, html)")
	)

	flag.Parse()

	if (*file == "") == (*league == "") {
		log.Fatalf("Specify exactly one of --file or --league")
	}

	style, err := standings.ParseStyle(*styleName)
	if err != nil {
		log.Fatalf("parse style: %v", err)
	}

	content, err := readDocument(*file, *league, *baseURL, *token)
	if err != nil {
		log.Fatalf("read standings: %v", err)
	}

	doc, err := standings.ParseDocument(strings.NewReader(content))
	if err != nil {
		log.Fatalf("parse standings: %v", err)
	}

	count := 0
	for msg := range standings.NewFormatter(style).FormatStandings(standings.Teams(doc)) {
		if count > 0 {
			fmt.Println()
		}
		fmt.Println(msg.Text)
		count++
	}

	log.Printf("✓ Rendered %d standings messages", count)
}

func readDocument(file, league, baseURL, token string) (string, error) {
	if league != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return yahoo.New(baseURL, token).FetchStandings(ctx, league)
	}

	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
