//go:build unix

package platform

import "golang.org/x/sys/unix"

// RaisePriority asks the scheduler to favour this process. It usually needs
// root; failure is reported but harmless.
func RaisePriority() error {
	return unix.Setpriority(unix.PRIO_PROCESS, 0, -19)
}
