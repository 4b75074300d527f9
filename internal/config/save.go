package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileHeader = "# skilltrend config. Keys can be overridden with SKILLTREND_<SECTION>_<KEY>.\n"

// SaveAtomic validates cfg and replaces the file at path through a temp file
// in the same directory. The previous version is kept as path.bak. The API
// key is never written; it belongs in the env or the keychain.
func SaveAtomic(path string, cfg Config) error {
	out, res := NormalizeAndValidate(cfg)
	if err := res.Err(); err != nil {
		return err
	}
	out.Provider.APIKey = ""

	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	bak := path + ".bak"
	_ = os.Remove(bak)
	if err := os.Rename(path, bak); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("backup config: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
