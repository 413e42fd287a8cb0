package agent

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// releaseStore keeps installed package versions per service under the
// agent data directory:
//
//	releases/{service}/{version}/package.pkg
//	releases/{service}/current  -> {version}
//	releases/{service}/previous -> {version}
//
// The current symlink is the version the service runs; previous is the
// rollback target.
type releaseStore struct {
	root string
}

func newReleaseStore(dataDir string) *releaseStore {
	return &releaseStore{root: filepath.Join(dataDir, "releases")}
}

func (rs *releaseStore) serviceDir(service string) string {
	return filepath.Join(rs.root, service)
}

// Install verifies the package digest and stages it as a new release.
// The current pointer is not moved; Activate does that once the
// service is stopped.
func (rs *releaseStore) Install(service, version, packagePath, sha string) error {
	f, err := os.Open(packagePath)
	if err != nil {
		return fmt.Errorf("failed to open package: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return fmt.Errorf("failed to read package: %w", err)
	}
	sum := hex.EncodeToString(hasher.Sum(nil))
	if sha != "" && !strings.EqualFold(sum, sha) {
		return fmt.Errorf("package digest %s does not match advertised %s", sum, sha)
	}

	dir := filepath.Join(rs.serviceDir(service), version)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create release dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, "package.pkg"))
	if err != nil {
		return fmt.Errorf("failed to stage package: %w", err)
	}
	defer dst.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("failed to copy package: %w", err)
	}
	return nil
}

// Activate points current at version, recording the old current as
// previous. Idempotent when version is already current.
func (rs *releaseStore) Activate(service, version string) error {
	dir := rs.serviceDir(service)
	current := filepath.Join(dir, "current")
	previous := filepath.Join(dir, "previous")

	old, err := os.Readlink(current)
	if err == nil && old == version {
		return nil
	}
	if err == nil {
		os.Remove(previous)
		if err := os.Symlink(old, previous); err != nil {
			return fmt.Errorf("failed to record previous release: %w", err)
		}
	}

	tmp := current + ".tmp"
	os.Remove(tmp)
	if err := os.Symlink(version, tmp); err != nil {
		return fmt.Errorf("failed to stage current release: %w", err)
	}
	if err := os.Rename(tmp, current); err != nil {
		return fmt.Errorf("failed to activate release: %w", err)
	}
	return nil
}

// Current returns the active version for service, or "" if none
func (rs *releaseStore) Current(service string) string {
	v, err := os.Readlink(filepath.Join(rs.serviceDir(service), "current"))
	if err != nil {
		return ""
	}
	return v
}

// Previous returns the rollback target for service, or "" if none
func (rs *releaseStore) Previous(service string) string {
	v, err := os.Readlink(filepath.Join(rs.serviceDir(service), "previous"))
	if err != nil {
		return ""
	}
	return v
}

// Rollback swaps current and previous, returning the version now
// active
func (rs *releaseStore) Rollback(service string) (string, error) {
	prev := rs.Previous(service)
	if prev == "" {
		return "", fmt.Errorf("no previous release for %s", service)
	}
	if err := rs.Activate(service, prev); err != nil {
		return "", err
	}
	return prev, nil
}
