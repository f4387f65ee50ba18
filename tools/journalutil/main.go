package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/internal/infrastructure/storage"
	"github.com/depp1024/living/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "stats", "dump", "agent":
		if len(os.Args) < 3 {
			fmt.Printf("Usage: journalutil %s <file.lvj>\n", os.Args[1])
			return
		}
		session, err := (&storage.JournalService{}).Load(os.Args[2])
		if err != nil {
			fmt.Printf("Invalid journal: %v\n", err)
			os.Exit(1)
		}
		switch os.Args[1] {
		case "stats":
			printStats(session)
		case "dump":
			for _, ev := range session.Events {
				printEvent(ev)
			}
		case "agent":
			if len(os.Args) < 4 {
				fmt.Println("Usage: journalutil agent <file.lvj> <nickname>")
				return
			}
			for _, ev := range session.Events {
				if ev.Nickname == os.Args[3] || ev.Partner == os.Args[3] {
					printEvent(ev)
				}
			}
		}
	case "buildid":
		if len(os.Args) < 3 {
			fmt.Println("Usage: journalutil buildid <YYYY-MM-DD>")
			return
		}
		id, err := version.CalculateBuildID(os.Args[2])
		if err != nil {
			fmt.Printf("Invalid date: %v\n", err)
			return
		}
		fmt.Println(id)
	default:
		printHelp()
	}
}

func printStats(s *storage.JournalSession) {
	h := s.Header
	fmt.Printf("area     %s\n", h.Area)
	fmt.Printf("seed     %d\n", h.Seed)
	fmt.Printf("center   %.6f,%.6f\n", h.Lat, h.Lng)
	fmt.Printf("started  %s\n", time.Unix(h.Timestamp, 0).UTC().Format(time.RFC3339))
	fmt.Printf("events   %d\n", len(s.Events))
	if n := len(s.Events); n > 0 {
		fmt.Printf("span     %s\n", time.Duration(s.Events[n-1].TimeMs)*time.Millisecond)
	}

	counts := make(map[domain.EventKind]int)
	for _, ev := range s.Events {
		counts[ev.Kind]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("  %-14s %d\n", k, counts[domain.EventKind(k)])
	}
}

func printEvent(ev domain.JournalEvent) {
	line := fmt.Sprintf("%6d %10dms %-13s %s", ev.Seq, ev.TimeMs, ev.Kind, ev.Nickname)
	if ev.Partner != "" {
		line += " <-> " + ev.Partner
	}
	if ev.Place != "" {
		line += " @ " + ev.Place
	}
	if ev.Detail != "" {
		line += " (" + ev.Detail + ")"
	}
	fmt.Println(line)
}

func printHelp() {
	fmt.Println(`Journal Utility - просмотр журналов прогона (.lvj)
Commands:
  stats <file>             - сводка: заголовок и число событий по типам
  dump <file>              - все события по порядку
  agent <file> <nickname>  - события одного агента (включая разговоры с ним)
  buildid <YYYY-MM-DD>     - номер сборки для даты`)
}
