package cmd

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/ThePrior/Navigation/internal/api"
	"github.com/ThePrior/Navigation/internal/navmenu"
)

var outlineLinkPattern = regexp.MustCompile(`^\[(.+)\]\((.*)\)$`)

// outlineEntry is one parsed bullet with its nesting depth.
type outlineEntry struct {
	level int
	entry navmenu.RawEntry
}

// parseOutline reads a markdown bullet outline, two spaces (or one tab) per
// level. "[Title](url)" bullets are clickable; plain bullets are headings.
func parseOutline(content string) ([]outlineEntry, error) {
	var entries []outlineEntry
	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}

		indent := 0
		for _, r := range raw {
			if r == ' ' {
				indent++
			} else if r == '\t' {
				indent += 2
			} else {
				break
			}
		}
		text := strings.TrimLeft(raw, " \t")
		if !strings.HasPrefix(text, "- ") && !strings.HasPrefix(text, "* ") {
			return nil, fmt.Errorf("line %d: expected a bullet", lineNo)
		}
		text = strings.TrimSpace(text[2:])

		level := indent / 2
		if !navmenu.Level(level).Valid() {
			return nil, fmt.Errorf("line %d: %q is nested deeper than level 2", lineNo, text)
		}

		entry := navmenu.RawEntry{Title: text}
		if m := outlineLinkPattern.FindStringSubmatch(text); m != nil {
			entry.Title = strings.TrimSpace(m[1])
			entry.URL = strings.TrimSpace(m[2])
			entry.Clickable = true
		}
		entries = append(entries, outlineEntry{level: level, entry: entry})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// outlineFixture splits an outline into the three level lists, naming each
// entry's parent after the nearest shallower bullet.
func outlineFixture(entries []outlineEntry, lists api.ListNames) (*api.Fixture, error) {
	lists = lists.WithDefaults()
	seen := make(map[string]navmenu.Level, len(navmenu.Levels))
	for _, level := range navmenu.Levels {
		name := lists.For(level)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%s and %s both use list %q", prev, level, name)
		}
		seen[name] = level
	}

	fx := &api.Fixture{Lists: map[string][]navmenu.RawEntry{
		lists.Level0: {},
		lists.Level1: {},
		lists.Level2: {},
	}}

	var stack []string
	for _, oe := range entries {
		if oe.level > len(stack) {
			return nil, fmt.Errorf("%q is indented past its parent", oe.entry.Title)
		}
		stack = stack[:oe.level]

		entry := oe.entry
		if oe.level > 0 {
			parent := stack[oe.level-1]
			entry.ParentName = &parent
		}
		name := lists.For(navmenu.Level(oe.level))
		fx.Lists[name] = append(fx.Lists[name], entry)
		stack = append(stack, entry.Title)
	}
	return fx, nil
}
