// Package installinfo inspects local installation state: executable
// location, config directories, the legacy console credential cache, and
// shell profiles. Everything here is read-only; profile scanning looks for
// the token variable's name, never its value.
package installinfo

import (
	"bufio"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DirStatus is one inspected directory.
type DirStatus struct {
	Path   string
	Exists bool
}

// Executable reports the running binary's resolved path.
func Executable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(exe)
}

// OnPath reports where name resolves on PATH, if anywhere.
func OnPath(name string) (string, bool) {
	p, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return p, true
}

// ConfigDirs lists the per-platform config directories the client reads.
func ConfigDirs(home, goos string) []DirStatus {
	var paths []string
	if goos == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		paths = []string{filepath.Join(appData, "DevGrid")}
	} else {
		paths = []string{
			filepath.Join(home, ".config", "devgrid"),
			filepath.Join(home, ".devgrid"),
		}
	}

	out := make([]DirStatus, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		out = append(out, DirStatus{Path: p, Exists: err == nil && info.IsDir()})
	}
	return out
}

// LegacyCacheDir reports the deprecated console credential-cache directory
// and whether it exists.
func LegacyCacheDir(home, goos string) (string, bool) {
	var path string
	if goos == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		path = filepath.Join(appData, "DevGrid Console")
	} else {
		path = filepath.Join(home, ".devgrid", "console")
	}
	info, err := os.Stat(path)
	return path, err == nil && info.IsDir()
}

// profileNames are the shell-profile-style files scanned for the token
// variable's name.
var profileNames = []string{
	".bashrc",
	".bash_profile",
	".zshrc",
	".zshenv",
	".profile",
}

// ScanProfiles returns the profile files under home that mention varName.
func ScanProfiles(home, varName string) []string {
	var hits []string
	for _, name := range profileNames {
		path := filepath.Join(home, name)
		if profileMentions(path, varName) {
			hits = append(hits, path)
		}
	}
	return hits
}

func profileMentions(path, varName string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, varName) {
			return true
		}
	}
	return false
}

// ClientBinaryName is the binary whose installation is being diagnosed.
func ClientBinaryName(goos string) string {
	if goos == "windows" {
		return "devgrid.exe"
	}
	return "devgrid"
}
