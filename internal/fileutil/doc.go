// Package fileutil holds the file system helpers gtprobe is built from.
//
// # Main Components
//
// ValidatePattern splits a combined directory + file name glob into its two
// parts and checks each against a PathSyntax. Both the Windows and the POSIX
// syntax are always available, so patterns written for one platform can be
// checked on another.
//
// BinaryFileContainsStrings decodes a binary with a golang.org/x/text
// encoding and searches it for marker strings with an Aho-Corasick automaton.
//
// Reaper deletes directory trees and reports read-only entries as errors
// instead of changing them. The Attributes capability keeps it portable.
//
// FindCandidates lists the files below a directory whose names match a glob.
package fileutil
