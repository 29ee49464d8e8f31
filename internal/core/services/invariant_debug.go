//go:build atlasdebug

package services

const debugInvariants = true
