package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// keySeparator splits a key into its namespace ("project") and name.
const keySeparator = ":"

var namespacePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// OpenDiskv returns a KV backed by one file per key under basePath. The
// namespace of a key becomes a directory; the name is encoded into the file
// name so any string is a valid key.
func OpenDiskv(basePath string) (*Disk, error) {
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

// Disk is the diskv backend.
type Disk struct {
	d        *diskv.Diskv
	basePath string
}

func (p *Disk) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, err := p.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("store: read %s: %w", key, err)
	}
	return val, true, nil
}

func (p *Disk) Set(_ context.Context, key string, value []byte) error {
	if err := p.d.Write(key, value); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (p *Disk) Delete(_ context.Context, key string) error {
	if !p.d.Has(key) {
		return nil
	}
	if err := p.d.Erase(key); err != nil {
		return fmt.Errorf("store: erase %s: %w", key, err)
	}
	return nil
}

func (p *Disk) List(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	for key := range p.d.KeysPrefix(prefix, ctx.Done()) {
		keys = append(keys, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (p *Disk) Close() error { return nil }

func keyToPathTransform(s string) *diskv.PathKey {
	ns, name := splitKey(s)
	pk := &diskv.PathKey{FileName: encodeName(name)}
	if ns != "" {
		pk.Path = []string{ns}
	}
	return pk
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	name := decodeName(pathKey.FileName)
	if len(pathKey.Path) == 0 {
		return name
	}
	return strings.Join(pathKey.Path, keySeparator) + keySeparator + name
}

// splitKey returns the directory-safe namespace of s and the rest. Keys
// whose namespace is not directory-safe are stored whole at the top level.
func splitKey(s string) (string, string) {
	i := strings.Index(s, keySeparator)
	if i <= 0 || !namespacePattern.MatchString(s[:i]) {
		return "", s
	}
	return s[:i], s[i+1:]
}

func encodeName(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func decodeName(s string) string {
	name, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return s
	}
	return string(name)
}
