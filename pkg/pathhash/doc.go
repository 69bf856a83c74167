// Package pathhash turns human-readable widget paths into the 32-bit
// identifiers an immediate-mode host assigns to its items.
//
// Identifiers are CRC-32 (polynomial 0xEDB88320) checksums chained through
// the naming scopes a host pushes while it builds a frame. A path such as
// "Window/Child/Button" therefore hashes to the same value as the host's ID
// for the "Button" label pushed inside "Window" and "Child".
//
// # Path syntax
//
//   - "/" separates scopes and is not hashed.
//   - A leading "/" anchors the path at the root namespace (seed 0).
//   - "\" escapes the next byte, so "A\/B" addresses a label containing a slash.
//   - "###" resets the checksum to the seed, so "Label###id" hashes like "id".
//
// # Usage
//
//	id := pathhash.Hash("Demo/OK", 0)
//	same := pathhash.HashString("OK", pathhash.HashString("Demo", 0))
//
// Hosts use HashString for labels and tests use Hash for paths.
package pathhash
