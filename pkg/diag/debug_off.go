//go:build !debug

package diag

const debugBuild = false
