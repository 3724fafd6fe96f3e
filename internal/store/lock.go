package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	harvestLockDirName   = ".harvest.lock"
	harvestLockOwnerFile = "owner.json"
)

// HarvestLock guards an output directory against concurrent harvests,
// which would interleave writes to the combined archive.
type HarvestLock struct {
	lockDir string
}

type harvestLockOwner struct {
	PID       int    `json:"pid"`
	CreatedAt string `json:"created_at"`
	Hostname  string `json:"hostname,omitempty"`
}

func AcquireHarvestLock(outputDir string) (HarvestLock, error) {
	target := strings.TrimSpace(outputDir)
	if target == "" {
		return HarvestLock{}, fmt.Errorf("output directory is required")
	}

	lockDir := filepath.Join(target, harvestLockDirName)
	if err := os.Mkdir(lockDir, 0o755); err != nil {
		if os.IsExist(err) {
			ownerPath := filepath.Join(lockDir, harvestLockOwnerFile)
			var owner harvestLockOwner
			if readErr := ReadJSON(ownerPath, &owner); readErr == nil && owner.PID > 0 && owner.CreatedAt != "" {
				return HarvestLock{}, fmt.Errorf(
					"output directory is locked: %s (pid=%d created_at=%s host=%s)",
					target, owner.PID, owner.CreatedAt, owner.Hostname,
				)
			}
			return HarvestLock{}, fmt.Errorf("output directory is locked: %s", target)
		}
		return HarvestLock{}, fmt.Errorf("acquire harvest lock for %s: %w", target, err)
	}

	owner := harvestLockOwner{
		PID:       os.Getpid(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Hostname:  hostnameOrUnknown(),
	}
	ownerPath := filepath.Join(lockDir, harvestLockOwnerFile)
	if err := WriteJSON(ownerPath, owner); err != nil {
		_ = os.Remove(lockDir)
		return HarvestLock{}, fmt.Errorf("write harvest lock owner for %s: %w", target, err)
	}

	return HarvestLock{lockDir: lockDir}, nil
}

func (l HarvestLock) Release() error {
	if strings.TrimSpace(l.lockDir) == "" {
		return nil
	}
	_ = os.Remove(filepath.Join(l.lockDir, harvestLockOwnerFile))
	if err := os.Remove(l.lockDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release harvest lock %s: %w", l.lockDir, err)
	}
	return nil
}

func hostnameOrUnknown() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "unknown"
	}
	return host
}
