//go:build windows

package lock

func autoProber(string) Prober {
	return RestartManager{}
}
