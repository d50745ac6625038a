//go:build windows

package envstore

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"pathboot/internal/model"
)

const (
	machineEnvKey = `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`
	userEnvKey    = `Environment`
	pathValue     = "Path"

	hwndBroadcast   = 0xffff
	wmSettingChange = 0x001A
	smtoAbortIfHung = 0x0002
)

var procSendMessageTimeout = windows.NewLazySystemDLL("user32.dll").NewProc("SendMessageTimeoutW")

// Registry reads and writes the Path value under HKLM and HKCU.
type Registry struct{}

// Default returns the Windows registry store.
func Default() Store {
	return Registry{}
}

func location(scope model.Scope) (registry.Key, string, error) {
	switch scope {
	case model.ScopeMachine:
		return registry.LOCAL_MACHINE, machineEnvKey, nil
	case model.ScopeUser:
		return registry.CURRENT_USER, userEnvKey, nil
	}
	return 0, "", fmt.Errorf("%w: %q", ErrUnknownScope, scope)
}

func (Registry) Lookup(scope model.Scope) (string, error) {
	root, path, err := location(scope)
	if err != nil {
		return "", err
	}
	k, err := registry.OpenKey(root, path, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("opening %s key: %w", scope, err)
	}
	defer k.Close()

	v, _, err := k.GetStringValue(pathValue)
	if errors.Is(err, registry.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s Path: %w", scope, err)
	}
	return v, nil
}

func (Registry) Save(scope model.Scope, value string) error {
	root, path, err := location(scope)
	if err != nil {
		return err
	}
	k, err := registry.OpenKey(root, path, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("opening %s key for writing: %w", scope, err)
	}
	defer k.Close()

	// Keep %VAR% references expandable if the existing value used them.
	_, valType, err := k.GetStringValue(pathValue)
	if err == nil && valType == registry.EXPAND_SZ {
		err = k.SetExpandStringValue(pathValue, value)
	} else {
		err = k.SetStringValue(pathValue, value)
	}
	if err != nil {
		return fmt.Errorf("writing %s Path: %w", scope, err)
	}

	broadcastEnvironmentChange()
	return nil
}

func (Registry) Separator() string {
	return ";"
}

// Expand resolves %VAR% references the way Explorer does when it builds a
// new process environment. Values that fail to expand are returned as is.
func (Registry) Expand(value string) string {
	expanded, err := registry.ExpandString(value)
	if err != nil {
		slog.Debug("expanding search path failed", "err", err)
		return value
	}
	return expanded
}

// broadcastEnvironmentChange tells running shells to reload the environment.
func broadcastEnvironmentChange() {
	param, err := windows.UTF16PtrFromString("Environment")
	if err != nil {
		return
	}
	var result uintptr
	r, _, callErr := procSendMessageTimeout.Call(
		hwndBroadcast,
		wmSettingChange,
		0,
		uintptr(unsafe.Pointer(param)),
		smtoAbortIfHung,
		5000,
		uintptr(unsafe.Pointer(&result)),
	)
	if r == 0 {
		slog.Debug("WM_SETTINGCHANGE broadcast failed", "err", callErr)
	}
}
