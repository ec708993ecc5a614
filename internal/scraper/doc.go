// Package scraper drives a scrape run: targets are split into fixed-size
// groups, each group is fetched concurrently and joined, pages are extracted
// in input order, and groups are separated by a pause.
//
// Faults never stop a run. A failed fetch or extraction is logged once at
// ERROR and contributes no records; the run always reaches the last group
// unless its context is canceled.
package scraper
