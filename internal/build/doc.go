// Package build assembles one project into its output document.
//
// A run checks that every required source exists, loads all artifacts
// concurrently, renders the project template against the merged render
// context and replaces the output file atomically. Every entry point (the
// build command, the watch coordinator, tests) goes through Pipeline.Run.
package build
