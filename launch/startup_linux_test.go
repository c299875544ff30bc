package launch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteAutostart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "autostart")
	path := filepath.Join(dir, "yaffe.desktop")

	if err := writeAutostart(dir, true, "/opt/yaffe/yaffe"); err != nil {
		t.Fatalf("enable: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if !strings.Contains(string(data), `Exec="/opt/yaffe/yaffe"`) {
		t.Errorf("entry = %q, want the quoted executable", data)
	}

	if err := writeAutostart(dir, false, ""); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("entry still present: %v", err)
	}
	if err := writeAutostart(dir, false, ""); err != nil {
		t.Errorf("disable twice: %v", err)
	}
}
