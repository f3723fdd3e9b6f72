package toolspec

import "strings"

// Separator joins the segments of a structured tool name.
//
// Tool names flatten a two-level CLI grammar into one identifier:
// "forge_build" runs `forge build`, "cast_block___number" runs
// `cast block --number`. A triple separator (two consecutive empty segments
// followed by a non-empty one) marks a long flag; plain segments accumulate
// into a hyphen-joined subcommand word.
const Separator = '_'

// DecodeName splits a tool name into its base command and the argv tokens
// encoded in the remaining segments.
func DecodeName(name string) (base string, tokens []string) {
	parts := strings.Split(name, string(Separator))
	if len(parts) == 0 {
		return "", nil
	}
	return parts[0], decodeSegments(parts)
}

// decodeSegments turns name segments (after the base command) into argv
// tokens. Consecutive empty segments around a non-empty one denote a long
// flag; other non-empty segments accumulate and join with a hyphen into a
// single subcommand word. Accumulated segments after a long flag has been
// emitted are dropped, matching the flattened-name grammar: a long flag
// always terminates the subcommand position.
func decodeSegments(parts []string) []string {
	var tokens []string
	var word []string
	longFlagSeen := false

	i := 1
	for i < len(parts) {
		switch {
		case parts[i] == "" && i+2 < len(parts) && parts[i+1] == "":
			i += 2
			if i < len(parts) && parts[i] != "" {
				if len(word) > 0 {
					tokens = append(tokens, strings.Join(word, "-"))
					word = word[:0]
				}
				tokens = append(tokens, "--"+parts[i])
				longFlagSeen = true
			}
			i++
		case parts[i] != "":
			word = append(word, parts[i])
			i++
		default:
			i++
		}
	}

	if len(word) > 0 && !longFlagSeen {
		tokens = append(tokens, strings.Join(word, "-"))
	}

	return tokens
}
