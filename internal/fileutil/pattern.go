package fileutil

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PatternError describes which parts of a file search pattern are invalid.
type PatternError struct {
	Pattern         string
	PathPart        string
	FilePart        string
	PathPartInvalid bool
	FilePartInvalid bool
}

func (e *PatternError) Error() string {
	var problems []string
	if e.FilePartInvalid {
		problems = append(problems, fmt.Sprintf("file pattern part %q is not a valid file name pattern", e.FilePart))
	}
	if e.PathPartInvalid {
		problems = append(problems, fmt.Sprintf("path part %q is not a well-formed absolute directory", e.PathPart))
	}
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, strings.Join(problems, "; "))
}

// SplitPattern cuts pattern after its last separator. The directory part keeps
// the trailing separator; it is empty when pattern has no separator.
func SplitPattern(pattern string, syntax PathSyntax) (dir, file string) {
	i := strings.LastIndexAny(pattern, syntax.Separators())
	if i < 0 {
		return "", pattern
	}
	return pattern[:i+1], pattern[i+1:]
}

// ValidatePattern checks a combined directory + file name glob such as
// C:\build\*Tests.exe. It returns nil when both parts are valid and a
// *PatternError naming every failing part otherwise.
func ValidatePattern(pattern string, syntax PathSyntax) error {
	dir, file := SplitPattern(pattern, syntax)

	pathOK := dir != "" && syntax.IsWellFormedAbsolutePath(dir)
	fileOK := file != "" && syntax.IsWellFormedFileName(file) && doublestar.ValidatePattern(file)

	if pathOK && fileOK {
		return nil
	}
	return &PatternError{
		Pattern:         pattern,
		PathPart:        dir,
		FilePart:        file,
		PathPartInvalid: !pathOK,
		FilePartInvalid: !fileOK,
	}
}
