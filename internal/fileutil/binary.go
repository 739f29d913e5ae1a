package fileutil

import (
	"fmt"
	"os"

	ahocorasick "github.com/BobuSumisu/aho-corasick"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// LookupEncoding resolves a WHATWG encoding label such as "ascii", "utf-8",
// "utf-16le" or "latin1". Following WHATWG, "ascii" decodes as windows-1252,
// which maps every byte to a character.
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// BinaryFileContainsStrings reports whether the content of path, decoded with
// enc, contains at least one of markers. Undecodable bytes are replaced
// rather than rejected, so compiled binaries can be scanned. A nil enc scans
// the raw bytes. Read failures are returned.
func BinaryFileContainsStrings(path string, enc encoding.Encoding, markers []string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read binary %s: %w", path, err)
	}

	trie := buildMarkerTrie(markers)
	if trie == nil || len(data) == 0 {
		return false, nil
	}

	text := data
	if enc != nil {
		text, err = enc.NewDecoder().Bytes(data)
		if err != nil {
			return false, fmt.Errorf("failed to decode binary %s: %w", path, err)
		}
	}

	return len(trie.Match(text)) > 0, nil
}

// buildMarkerTrie returns nil if there is nothing to search for.
func buildMarkerTrie(markers []string) *ahocorasick.Trie {
	builder := ahocorasick.NewTrieBuilder()
	added := 0
	for _, marker := range markers {
		if marker == "" {
			continue
		}
		builder.AddString(marker)
		added++
	}
	if added == 0 {
		return nil
	}
	return builder.Build()
}
