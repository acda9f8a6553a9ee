// Package catalog is the decode boundary for section data coming from the
// course backend. Raw records keep the backend's snake_case shape with
// every field optional; ParseSectionSelected validates them into domain
// entities and returns the first ValidationError it meets.
package catalog
