//go:build windows

package platform

import "golang.org/x/sys/windows"

// RaisePriority moves this process into the high priority class.
func RaisePriority() error {
	return windows.SetPriorityClass(windows.CurrentProcess(), windows.HIGH_PRIORITY_CLASS)
}
