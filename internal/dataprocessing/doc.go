// Package dataprocessing turns raw EIA annual-generation exports into the
// tidy table and derived statistics the rest of the application consumes.
//
// The pipeline is a chain of pure stages: header location, raw table
// building, tidy transformation, statistics, insights. Each stage is a
// function of its input; nothing caches results across calls.
package dataprocessing
