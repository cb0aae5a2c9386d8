// Package pipeline sequences the provisioning steps of a C/C++ development
// environment as an explicit, linear state machine.
//
// A run moves from Start through each planned step in canonical order. A step
// that fails moves the pipeline to Aborted and nothing after it runs; otherwise
// the run ends in Done. Both are terminal and a Pipeline is never reused.
// Effects of steps that completed before an abort stay in place.
package pipeline
