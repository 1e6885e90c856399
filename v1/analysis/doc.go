// Package analysis provides lightweight text heuristics for wellness
// content: crisis indicator detection, sentiment scoring, emotion and
// trigger extraction, and text preparation for embedding.
//
// The heuristics are deliberately simple keyword and pattern scans.
// They run on every journal entry and therapy message, so they must be
// fast, deterministic, and dependency-free. Anything needing deeper
// understanding goes through the language model instead.
//
// Crisis detection is the safety-critical path: DetectCrisis is pure
// and cannot fail, so callers never have to choose between an error
// and a missed escalation.
package analysis
