package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// promptExt is the extension of every prompt file.
const promptExt = ".txt"

// builtinPrompts are written to disk on first use and served whenever the
// file is missing or unreadable.
var builtinPrompts = map[string]string{
	driven.PromptQueryAnalysis: driven.DefaultQueryAnalysisPrompt,
}

// requiredFields lists JSON keys a prompt must mention for the analyzer to
// get a usable reply. A prompt missing one is still served, with a warning.
var requiredFields = map[string][]string{
	driven.PromptQueryAnalysis: {`"keywords"`, `"intent"`},
}

// cachedPrompt remembers a prompt file's content and when it was modified.
type cachedPrompt struct {
	text    string
	modTime time.Time
}

// PromptStore serves analysis prompts from <dir>/<name>.txt.
//
// The directory is seeded with the built-in prompts on the first Load.
// Each Load stats the file and re-reads it only when its modification time
// has changed, so edits reach a running server without a restart.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.Mutex
	cache map[string]cachedPrompt
	reads int
}

// NewPromptStore creates a prompt store rooted at dir. An empty dir means
// ~/.sercha-federated/prompts. No I/O happens until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, DefaultDirName, "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]cachedPrompt)}, nil
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Names returns the prompts the store knows a built-in version of.
func (s *PromptStore) Names() []string {
	names := make([]string, 0, len(builtinPrompts))
	for name := range builtinPrompts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Load returns the prompt called name. A missing or unreadable file yields
// the built-in prompt; an unknown name with no file is an error.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(func() { s.seedErr = s.seed() })
	if s.seedErr != nil {
		logger.Debug("Prompt directory unavailable: %v", s.seedErr)
	}

	text, err := s.read(name)
	if err != nil {
		if builtin, ok := builtinPrompts[name]; ok {
			return builtin, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	return text, nil
}

// read returns the file content for name, reusing the cached copy while
// the file's modification time is unchanged.
func (s *PromptStore) read(name string) (string, error) {
	path := s.path(name)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.cache[name]; ok && c.modTime.Equal(info.ModTime()) {
		return c.text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	s.reads++

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("prompt file %s is empty", path)
	}
	checkFields(name, text)
	s.cache[name] = cachedPrompt{text: text, modTime: info.ModTime()}
	return text, nil
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+promptExt)
}

// checkFields warns when an edited prompt no longer asks for a field the
// analyzer relies on.
func checkFields(name, text string) {
	for _, field := range requiredFields[name] {
		if !strings.Contains(text, field) {
			logger.Warn("Prompt %s does not mention %s; analysis may fall back to keywords", name, field)
		}
	}
}

// seed creates the directory, writes any missing built-in prompt and the
// README. Existing files are never overwritten.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}

	var errs []error
	for _, name := range s.Names() {
		errs = append(errs, writeIfMissing(s.path(name), builtinPrompts[name]))
	}
	errs = append(errs, writeIfMissing(filepath.Join(s.dir, "README.md"), s.readme()))
	return errors.Join(errs...)
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func (s *PromptStore) readme() string {
	var b strings.Builder
	b.WriteString("# Sercha Federated Prompts\n\n")
	b.WriteString("Prompts sent to the LLM by the query analyzer.\n\n")
	for _, name := range s.Names() {
		fmt.Fprintf(&b, "- `%s%s` must mention %s\n", name, promptExt, strings.Join(requiredFields[name], ", "))
	}
	b.WriteString(`
Edits are picked up on the next search. Delete a file to restore its
built-in version the next time the store starts.

The query is sent as a separate user message, so prompts take no
placeholders. A reply without keywords makes the analyzer fall back to
splitting the query on spaces.
`)
	return b.String()
}
