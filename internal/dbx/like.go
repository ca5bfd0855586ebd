package dbx

import "strings"

// LikeEscape is the ESCAPE clause matching ContainsPattern.
const LikeEscape = `ESCAPE '\'`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns free text into a LIKE/ILIKE pattern matching any
// value that contains it literally. Use it together with LikeEscape.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
