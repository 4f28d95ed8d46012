// Package testcaldav is a launcher around the CalDAVTester protocol test
// runner. It resolves the test-suite root and the server-info descriptor,
// assembles the delegated argument list, and spawns the external runner
// inside the suite root, propagating its exit status unchanged.
package testcaldav
