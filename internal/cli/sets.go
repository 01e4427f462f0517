package cli

import (
	"fmt"
	"strings"

	"bondfeed/internal/market"
)

// parseSets accepts repeated or comma separated set names.
func parseSets(raw []string) ([]market.Set, error) {
	var (
		out  []market.Set
		seen = make(map[market.Set]bool)
	)
	for _, item := range raw {
		for _, name := range strings.Split(item, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			set, ok := market.ParseSet(name)
			if !ok {
				return nil, fmt.Errorf("unknown set %q (want one of %s)", name, setNames())
			}
			if !seen[set] {
				seen[set] = true
				out = append(out, set)
			}
		}
	}
	return out, nil
}

func setNames() string {
	sets := market.Sets()
	names := make([]string, len(sets))
	for i, s := range sets {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
