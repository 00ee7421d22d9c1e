//go:build debug

package diag

const debugBuild = true
