// Package file stores quotechain settings in ~/.quotechain/config.toml,
// one TOML table per settings section ([markov], [quotes], [sweep],
// [scheduler], [storage]). The file may be edited by hand.
package file
