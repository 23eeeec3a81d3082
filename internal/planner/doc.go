// Package planner decides the per-file action (convert or skip) and the
// encode parameters, producing a FilePlan that the encoder package consumes.
package planner
