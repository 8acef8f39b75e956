package textutil

import "strings"

// pathComponentReplacer replaces filesystem-unsafe characters with safe
// alternatives. Path separators become underscores so a tag value can never
// add directory levels; characters that are merely awkward are dropped or
// dashed.
var pathComponentReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	"\x00", "",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizePathComponent makes a single path component safe for filesystem
// use. The result never contains a path separator and never names the
// current or parent directory. Empty or all-dot inputs become "Unknown".
func SanitizePathComponent(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSpace(pathComponentReplacer.Replace(name))
	if strings.Trim(name, ".") == "" {
		return "Unknown"
	}
	return name
}
