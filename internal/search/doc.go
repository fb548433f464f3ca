// Package search compiles free-form, mixed-language photo queries into
// structured filter predicates without calling any machine-learning model.
//
// The pipeline is purely rule based and runs the same way on every call:
//
//  1. Normalize: canonicalize Unicode dash variants to ASCII hyphens.
//  2. Structured extraction: five ordered, stateless extractors (date range,
//     size range, resolution, album hint, camera/lens hint) each scan the
//     text and either return typed predicates plus the spans they consumed,
//     or nothing.
//  3. Keyword extraction: the remaining text is tokenized into an
//     OR-of-AND-groups keyword expression, guided by explicit connective
//     words. Tokens already claimed by a structured extractor and noise
//     words (connectives, field vocabulary, command words) are dropped.
//  4. Combination: structured conditions and the keyword expression are
//     joined with AND or OR depending on the connectives found in the text.
//     Queries containing a top-level "or" connective are split into
//     segments, compiled independently, and OR-combined.
//
// The output is a Predicate tree. The database package compiles the same
// tree to SQL; Matches evaluates it against an in-memory Entry, which is
// what the unit tests exercise.
//
// Two safety rules hold for every compile: non-empty input that contains at
// least one meaningful token never yields an unconditionally true predicate,
// and input consisting only of noise words yields an unconditionally false
// one. Only the empty query matches everything.
package search
