// Package heron extracts a structural class model from Go and Kotlin
// projects.
package heron

// Version is the current heron release.
const Version = "0.1.0"
