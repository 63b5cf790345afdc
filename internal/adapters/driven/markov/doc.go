// Package markov implements driven.TextModeller with a word-level Markov
// chain text model.
//
// A model retains the chain, its state size and the tokenized sentences
// it was built from. Models can be combined by summing transition counts
// as long as neither side has been compiled and both share a state size.
// Compiling replaces counts with cumulative distributions for faster
// sampling and makes the model final.
//
// Payloads are JSON with states sorted, so identical models serialize to
// identical bytes.
package markov
