//go:build !attrdebug

package attribute

const debugAssertions = false
