// Package detect contains the core data types for the bot-likelihood
// scoring engine: validated account profiles, individual feature scores, and
// aggregated analysis results.
//
// The normalizer in this package is the single validation boundary: raw,
// loosely-typed records from the upstream data source are checked and
// converted exactly once, and everything downstream (feature extractors,
// aggregation) consumes only the strongly-typed AccountProfile.
package detect
