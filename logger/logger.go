// Package logger is the central diagnostic log. Entries are tagged with the
// component that produced them and kept in a bounded ring so hosts can show
// the most recent activity. Logging never fails and never blocks emulation.
package logger

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
)

// maxEntries is the number of entries retained before the oldest are dropped.
const maxEntries = 256

// Entry is a single log line.
type Entry struct {
	Tag    string
	Detail string
	Repeat int // number of identical entries folded into this one
}

// String formats the entry as "tag: detail", with a repeat count if folded.
func (e Entry) String() string {
	if e.Repeat > 0 {
		return fmt.Sprintf("%s: %s (repeat x%d)", e.Tag, e.Detail, e.Repeat+1)
	}
	return fmt.Sprintf("%s: %s", e.Tag, e.Detail)
}

type central struct {
	mu      sync.Mutex
	entries []Entry
	echo    *log.Logger
}

var std = &central{entries: make([]Entry, 0, maxEntries)}

// Log adds an entry to the central log.
func Log(tag string, detail string) {
	std.add(tag, detail)
}

// Logf adds a formatted entry to the central log.
func Logf(tag string, format string, args ...interface{}) {
	std.add(tag, fmt.Sprintf(format, args...))
}

// SetEcho copies every new entry to w. A nil writer stops echoing.
func SetEcho(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	if w == nil {
		std.echo = nil
		return
	}
	std.echo = log.New(w, "", log.LstdFlags)
}

// Tail returns up to n of the most recent entries, oldest first.
func Tail(n int) []Entry {
	std.mu.Lock()
	defer std.mu.Unlock()
	if n > len(std.entries) {
		n = len(std.entries)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Entry, n)
	copy(out, std.entries[len(std.entries)-n:])
	return out
}

// Dump writes every retained entry to w, one per line.
func Dump(w io.Writer) {
	var sb strings.Builder
	for _, e := range Tail(maxEntries) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	io.WriteString(w, sb.String())
}

// Clear drops all retained entries.
func Clear() {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.entries = std.entries[:0]
}

func (c *central) add(tag string, detail string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Fold consecutive duplicates; a stalled game can spam the same command.
	if n := len(c.entries); n > 0 {
		last := &c.entries[n-1]
		if last.Tag == tag && last.Detail == detail {
			last.Repeat++
			return
		}
	}

	if len(c.entries) == maxEntries {
		copy(c.entries, c.entries[1:])
		c.entries = c.entries[:maxEntries-1]
	}
	e := Entry{Tag: tag, Detail: detail}
	c.entries = append(c.entries, e)

	if c.echo != nil {
		c.echo.Print(e.String())
	}
}
