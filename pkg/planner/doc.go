// Package planner turns an ordered list of schema differences into an
// executable migration script.
//
// The synthesizer converts each difference into one MigrationStep: generated
// SQL, risk classification, duration estimate, best-effort rollback SQL, and
// pre/post validation conditions. SQL generation is delegated to one strategy
// per object type with a documented default; any generation failure is caught
// and converted into a commented placeholder so script generation always
// produces a script, even when some steps need human completion.
//
// The rollback planner assembles either an automatic rollback script from the
// steps' rollback SQL or, when that cannot be derived for every step, a
// two-step manual fallback plan with explicit warnings. It never fails.
package planner
