// Command tracker is a terminal front-end for the tracking proxy. It keeps
// an in-memory board of packages and talks to a running api instance.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/noah-isme/parcel-proxy/internal/board"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	defaultURL := os.Getenv("TRACKER_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	apiURL := flag.String("api", defaultURL, "base URL of the tracking proxy")
	flag.Parse()

	client := board.NewClient(*apiURL)
	list := board.NewList()

	fmt.Println("parcel tracker. commands: add <number> <carrier>, rm <id>, ls, filter <status> [query], quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "add":
			if len(args) < 2 {
				fmt.Println("usage: add <number> <carrier>")
				continue
			}
			number := args[0]
			carrier := strings.Join(args[1:], " ")
			res, err := client.Track(context.Background(), number, carrier)
			if err != nil {
				fmt.Println(err)
				continue
			}
			pkg := list.Add(res)
			fmt.Printf("added %s (%s, %s)\n", pkg.ID, pkg.TrackingNumber, pkg.Status)
		case "rm":
			if len(args) != 1 {
				fmt.Println("usage: rm <id>")
				continue
			}
			if !list.Remove(args[0]) {
				fmt.Println("no package with that id")
			}
		case "ls":
			printPackages(list.Items(), list.Counts())
		case "filter":
			if len(args) < 1 {
				fmt.Println("usage: filter <all|pending|in_transit|delivered|failed> [query]")
				continue
			}
			query := strings.Join(args[1:], " ")
			printPackages(list.Filter(query, args[0]), list.Counts())
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q\n", cmd)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("read input: %v", err)
	}
}

func printPackages(pkgs []board.Package, counts board.Counts) {
	fmt.Printf("total %d, in transit %d, delivered %d\n", counts.Total, counts.InTransit, counts.Delivered)
	if len(pkgs) == 0 {
		fmt.Println("no packages found")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNUMBER\tCARRIER\tSTATUS\tDESTINATION\tETA")
	for _, pkg := range pkgs {
		eta := pkg.EstimatedDelivery
		if eta == "" {
			eta = "-"
		}
		dest := pkg.Destination
		if dest == "" {
			dest = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", pkg.ID, pkg.TrackingNumber, pkg.Carrier, pkg.Status, dest, eta)
	}
	_ = w.Flush()
}
