//go:build !atlasdebug

package services

const debugInvariants = false
