package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// OriginKind tells which source produced the configuration file path.
type OriginKind int

const (
	OriginExplicit OriginKind = iota + 1
	OriginSearchPath
	OriginEnvironment
)

func (k OriginKind) String() string {
	switch k {
	case OriginExplicit:
		return "explicit path"
	case OriginSearchPath:
		return "default search path"
	case OriginEnvironment:
		return "environment variable"
	default:
		return "unknown"
	}
}

// Origin describes where the effective configuration was loaded from.
type Origin struct {
	Kind OriginKind
	Path string
}

func (o Origin) String() string {
	return fmt.Sprintf("%q (%s)", o.Path, o.Kind)
}

// Locator decides which configuration file to load. The zero value is not
// usable; build one with NewLocator and override fields in tests.
type Locator struct {
	SearchPaths []string
	FileNames   []string
	EnvVar      string

	LookupEnv func(key string) (string, bool)
	Stat      func(name string) (os.FileInfo, error)
}

// NewLocator returns a Locator over SearchPaths, FileNames and EnvFile.
func NewLocator() *Locator {
	return &Locator{
		SearchPaths: append([]string(nil), SearchPaths...),
		FileNames:   append([]string(nil), FileNames...),
		EnvVar:      EnvFile,
		LookupEnv:   os.LookupEnv,
		Stat:        os.Stat,
	}
}

// Locate returns the first configuration path found, in order: explicit,
// each search path joined with each of FileNames, then the EnvVar variable.
// Only existence checks are performed; nothing is opened.
func (l *Locator) Locate(explicit string) (Origin, error) {
	if explicit != "" {
		return Origin{Kind: OriginExplicit, Path: explicit}, nil
	}

	for _, dir := range l.SearchPaths {
		for _, name := range l.FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := l.Stat(candidate); err == nil && !info.IsDir() {
				return Origin{Kind: OriginSearchPath, Path: candidate}, nil
			}
		}
	}

	value, ok := l.LookupEnv(l.EnvVar)
	if !ok || value == "" {
		return Origin{}, ErrNoConfigFile
	}
	if !utf8.ValidString(value) {
		return Origin{}, fmt.Errorf("%w: %s", ErrEnvNotUTF8, l.EnvVar)
	}
	return Origin{Kind: OriginEnvironment, Path: value}, nil
}

// Resolve locates the configuration file and loads it.
func Resolve(l *Locator, explicit string) (Settings, Origin, error) {
	origin, err := l.Locate(explicit)
	if err != nil {
		return Settings{}, Origin{}, err
	}

	settings, err := Load(origin.Path)
	if err != nil {
		return Settings{}, origin, err
	}
	return settings, origin, nil
}
