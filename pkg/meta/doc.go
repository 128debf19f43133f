// Package meta holds the metadata registry: a build-once, read-many index
// of the node kinds and members an engine describes about itself.
// Every lookup key is a normalized name (spaces removed, lowercased).
package meta
