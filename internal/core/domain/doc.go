// Package domain holds quotechain's entities and the rules that do not
// need storage to evaluate.
//
// A Group collects Sources and a Source collects Quotes. Every Group and
// Source owns one TextModel, an opaque serialized Markov chain stamped
// with the time it was last written. Owner names the group or source a
// model belongs to, and UpdateResult reports whether a change rebuilt,
// merged or skipped the affected models.
//
// The package imports the standard library only. Every other package
// may depend on it.
package domain
