// Package services implements the driving ports on top of the driven ones.
//
// The markov services keep every source and group text model consistent
// with the catalogue. EligibilityService decides who may take part,
// CorpusBuilder performs full rebuilds, IncrementalCombiner merges single
// new quotes and Coordinator routes catalogue events between them and
// runs the sweep. Generator, Retriever and Scheduler sit on top.
package services
