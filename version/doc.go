// Package version reports the build identity of a locator binary.
//
// Version and commit come from -ldflags when set and from the embedded VCS
// stamp otherwise:
//
//	go build -ldflags "-X github.com/kbukum/locator/version.Version=1.2.0"
//
// The locator module's own version is reported separately, so a service
// that imports the toolkit can tell which release it was built against.
package version
