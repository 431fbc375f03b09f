//go:build !linux

package lock

import "errors"

func newProcFS() (Prober, error) {
	return nil, errors.New("procfs prober is only available on linux")
}
