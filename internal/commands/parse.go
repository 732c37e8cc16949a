package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/latoulicious/umaroster/pkg/uma/shared"
)

// ParseCommand splits a message into a subcommand and its arguments.
// ok is false when content does not start with prefix.
func ParseCommand(content, prefix string) (subcommand string, args []string, ok bool) {
	fields := strings.Fields(content)
	if len(fields) == 0 || !strings.EqualFold(fields[0], prefix) {
		return "", nil, false
	}
	if len(fields) == 1 {
		return "help", nil, true
	}
	return strings.ToLower(fields[1]), fields[2:], true
}

// ParseID parses a roster id, accepting an optional leading '#'
func ParseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(arg), "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a roster id", arg)
	}
	return id, nil
}

// ParseIDs parses every argument as a roster id; commas also separate ids
func ParseIDs(args []string) ([]int, error) {
	var ids []int
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := ParseID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no roster ids given")
	}
	return ids, nil
}

// ParseLoadout reads "name | spark:rarity,... | insp1,insp2".
// A spark without a rarity gets the minimum rarity. Rule checks are left to the validator.
func ParseLoadout(input string) (shared.LoadoutSelection, error) {
	var sel shared.LoadoutSelection

	parts := strings.Split(input, "|")
	if len(parts) > 3 {
		return sel, fmt.Errorf("expected at most 3 sections separated by '|', got %d", len(parts))
	}

	sel.Name = strings.TrimSpace(parts[0])

	if len(parts) > 1 {
		for _, token := range splitList(parts[1]) {
			ref, err := parseSparkToken(token)
			if err != nil {
				return sel, err
			}
			sel.Sparks = append(sel.Sparks, ref)
		}
	}

	if len(parts) > 2 {
		tokens := splitList(parts[2])
		if len(tokens) > 2 {
			return sel, fmt.Errorf("at most two inspirations can be given, got %d", len(tokens))
		}
		for i, token := range tokens {
			id, err := ParseID(token)
			if err != nil {
				return sel, fmt.Errorf("inspiration: %w", err)
			}
			if i == 0 {
				sel.Inspiration1 = shared.IntPtr(id)
			} else {
				sel.Inspiration2 = shared.IntPtr(id)
			}
		}
	}

	return sel, nil
}

func parseSparkToken(token string) (shared.SparkReference, error) {
	idPart, rarityPart, hasRarity := strings.Cut(token, ":")

	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(idPart), "#"))
	if err != nil {
		return shared.SparkReference{}, fmt.Errorf("spark %q: invalid id", token)
	}

	rarity := shared.MinRarity
	if hasRarity {
		rarity, err = strconv.Atoi(strings.TrimSpace(rarityPart))
		if err != nil {
			return shared.SparkReference{}, fmt.Errorf("spark %q: invalid rarity", token)
		}
	}

	return shared.SparkReference{SparkID: id, Rarity: rarity}, nil
}

func splitList(s string) []string {
	var out []string
	for _, token := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		if token != "" {
			out = append(out, token)
		}
	}
	return out
}
