package fileutil

import "strings"

// WindowsSyntax validates paths the way the Win32 namespace accepts them:
// drive-rooted (C:\dir\) or UNC (\\server\share\) directories, both slash
// kinds as separators.
type WindowsSyntax struct{}

// Separators implements PathSyntax.
func (WindowsSyntax) Separators() string { return `\/` }

// CaseInsensitive implements PathSyntax.
func (WindowsSyntax) CaseInsensitive() bool { return true }

const windowsInvalidPathChars = `<>"|?*`

const windowsInvalidNameChars = `<>:"/\|`

var windowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsWellFormedAbsolutePath implements PathSyntax.
func (WindowsSyntax) IsWellFormedAbsolutePath(dir string) bool {
	if dir == "" || hasControlChar(dir) || strings.ContainsAny(dir, windowsInvalidPathChars) {
		return false
	}

	if isWindowsSeparator(dir[0]) {
		return isWellFormedUNC(dir)
	}

	// Drive-rooted: a letter, the volume separator, then a separator. The
	// volume separator may not appear anywhere else.
	if len(dir) < 3 || !isASCIILetter(dir[0]) || dir[1] != ':' || !isWindowsSeparator(dir[2]) {
		return false
	}
	return !strings.Contains(dir[2:], ":")
}

func isWellFormedUNC(dir string) bool {
	if len(dir) < 2 || !isWindowsSeparator(dir[1]) || strings.Contains(dir, ":") {
		return false
	}
	parts := strings.FieldsFunc(dir[2:], func(r rune) bool { return r == '\\' || r == '/' })
	// server and share are both required
	return len(parts) >= 2
}

// IsWellFormedFileName implements PathSyntax.
func (WindowsSyntax) IsWellFormedFileName(name string) bool {
	if name == "" || name == "." || name == ".." || hasControlChar(name) {
		return false
	}
	if strings.ContainsAny(name, windowsInvalidNameChars) {
		return false
	}
	if strings.HasSuffix(name, " ") || strings.HasSuffix(name, ".") {
		return false
	}

	base := name
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return !windowsReservedNames[strings.ToUpper(base)]
}

// POSIXSyntax validates slash-rooted paths. Only NUL and the separator are
// illegal in names.
type POSIXSyntax struct{}

// Separators implements PathSyntax.
func (POSIXSyntax) Separators() string { return "/" }

// CaseInsensitive implements PathSyntax.
func (POSIXSyntax) CaseInsensitive() bool { return false }

// IsWellFormedAbsolutePath implements PathSyntax.
func (POSIXSyntax) IsWellFormedAbsolutePath(dir string) bool {
	return strings.HasPrefix(dir, "/") && !strings.ContainsRune(dir, 0)
}

// IsWellFormedFileName implements PathSyntax.
func (POSIXSyntax) IsWellFormedFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\x00")
}

func isWindowsSeparator(c byte) bool {
	return c == '\\' || c == '/'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func hasControlChar(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 {
			return true
		}
	}
	return false
}
