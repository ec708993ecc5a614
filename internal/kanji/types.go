package kanji

import "strings"

// DefaultTargets lists the kanji.jitenon.jp category pages scraped by default,
// one page per kanken level.
var DefaultTargets = []string{
	"https://kanji.jitenon.jp/cat/kyu10",
	"https://kanji.jitenon.jp/cat/kyu09",
	"https://kanji.jitenon.jp/cat/kyu08",
	"https://kanji.jitenon.jp/cat/kyu07",
	"https://kanji.jitenon.jp/cat/kyu06",
	"https://kanji.jitenon.jp/cat/kyu05",
	"https://kanji.jitenon.jp/cat/kyu04",
	"https://kanji.jitenon.jp/cat/kyu03",
	"https://kanji.jitenon.jp/cat/kyu02",
	"https://kanji.jitenon.jp/cat/kyu01",
	"https://kanji.jitenon.jp/cat/kyu02j",
	"https://kanji.jitenon.jp/cat/kyu01j",
	"https://kanji.jitenon.jp/cat/kyu0101j",
}

// Record is one kanji entry extracted from a category page.
// Fields are always serialized, even when empty.
type Record struct {
	Kanji string `json:"kanji"`
	URL   string `json:"url"`
	Level string `json:"level"`
}

// LevelOf returns the final path segment of a target URL verbatim.
func LevelOf(target string) string {
	return target[strings.LastIndex(target, "/")+1:]
}

// Chunk splits targets into consecutive groups of at most size entries.
// A non-positive size yields a single group.
func Chunk(targets []string, size int) [][]string {
	if len(targets) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(targets)
	}
	groups := make([][]string, 0, (len(targets)+size-1)/size)
	for start := 0; start < len(targets); start += size {
		end := min(start+size, len(targets))
		groups = append(groups, targets[start:end:end])
	}
	return groups
}
