//go:build windows

package lock

import (
	"context"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modrstrtmgr             = windows.NewLazySystemDLL("rstrtmgr.dll")
	procRmStartSession      = modrstrtmgr.NewProc("RmStartSession")
	procRmEndSession        = modrstrtmgr.NewProc("RmEndSession")
	procRmRegisterResources = modrstrtmgr.NewProc("RmRegisterResources")
	procRmGetList           = modrstrtmgr.NewProc("RmGetList")
)

const (
	cchRmSessionKey = 32 // CCH_RM_SESSION_KEY, two hex chars per GUID byte
	cchRmMaxAppName = 255
	cchRmMaxSvcName = 63
	errorMoreData   = 234
)

// rmUniqueProcess mirrors RM_UNIQUE_PROCESS.
type rmUniqueProcess struct {
	ProcessID        uint32
	ProcessStartTime windows.Filetime
}

// rmProcessInfo mirrors RM_PROCESS_INFO.
type rmProcessInfo struct {
	Process          rmUniqueProcess
	AppName          [cchRmMaxAppName + 1]uint16
	ServiceShortName [cchRmMaxSvcName + 1]uint16
	ApplicationType  uint32
	AppStatus        uint32
	TSSessionID      uint32
	Restartable      int32
}

// RestartManager finds holders with the Windows Restart Manager API.
type RestartManager struct{}

// Probe registers path in a fresh restart manager session and lists the processes using it.
func (RestartManager) Probe(ctx context.Context, path string) ([]Holder, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}

	var session uint32
	key := make([]uint16, cchRmSessionKey+1)
	if rc, _, _ := procRmStartSession.Call(uintptr(unsafe.Pointer(&session)), 0, uintptr(unsafe.Pointer(&key[0]))); rc != 0 {
		return nil, fmt.Errorf("rm start session: %w", windows.Errno(rc))
	}
	defer procRmEndSession.Call(uintptr(session)) //nolint:errcheck // nothing to do if ending the session fails

	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, fmt.Errorf("encode path %s: %w", path, err)
	}
	files := []*uint16{name}
	if rc, _, _ := procRmRegisterResources.Call(uintptr(session), 1, uintptr(unsafe.Pointer(&files[0])), 0, 0, 0, 0); rc != 0 {
		return nil, fmt.Errorf("rm register %s: %w", path, windows.Errno(rc))
	}

	var needed, count, reasons uint32
	rc, _, _ := procRmGetList.Call(uintptr(session), uintptr(unsafe.Pointer(&needed)), uintptr(unsafe.Pointer(&count)), 0,
		uintptr(unsafe.Pointer(&reasons)))
	if rc == 0 {
		return nil, nil // no process uses the file
	}
	if rc != errorMoreData {
		return nil, fmt.Errorf("rm get list %s: %w", path, windows.Errno(rc))
	}

	// the list can grow between the two calls, retry with the updated size
	for rc == errorMoreData {
		if needed == 0 {
			return nil, nil
		}
		infos := make([]rmProcessInfo, needed)
		count = needed
		rc, _, _ = procRmGetList.Call(uintptr(session), uintptr(unsafe.Pointer(&needed)), uintptr(unsafe.Pointer(&count)),
			uintptr(unsafe.Pointer(&infos[0])), uintptr(unsafe.Pointer(&reasons)))
		if rc == 0 {
			res := make([]Holder, 0, count)
			for _, info := range infos[:count] {
				res = append(res, Holder{PID: int(info.Process.ProcessID), Name: windows.UTF16ToString(info.AppName[:])})
			}
			return res, nil
		}
	}
	return nil, fmt.Errorf("rm get list %s: %w", path, windows.Errno(rc))
}
