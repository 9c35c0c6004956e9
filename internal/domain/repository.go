package domain

import "context"

// ActiveAppProvider reports the foreground application and running
// processes. Implementation: gopsutil for process listing plus a
// per-platform active-window lookup, selected at startup.
//
// Expected absence of an active window is NOT an error: ActiveApp
// returns (nil, nil). Only genuine faults (I/O errors, broken platform
// tooling) propagate as errors; the scheduler converts those into
// fail-open records.
type ActiveAppProvider interface {
	// ActiveApp returns the current foreground application, or nil
	// when no window has focus.
	ActiveApp(ctx context.Context) (*AppInfo, error)

	// RunningProcesses lists all visible processes.
	RunningProcesses(ctx context.Context) ([]ProcessInfo, error)

	// Support reports platform capabilities. Checked once at monitor
	// startup; an unsupported platform fails Start synchronously.
	Support() PlatformSupport
}

// ScreenTextProvider captures the screen and extracts visible text.
// Optional collaborator: any failure must omit the text from the check
// record without aborting the check.
type ScreenTextProvider interface {
	// CaptureScreen writes a screenshot and returns its path.
	// The path is an opaque reference owned by this provider.
	CaptureScreen(ctx context.Context) (string, error)

	// ExtractText runs OCR over a captured screenshot.
	ExtractText(ctx context.Context, path string) (ScreenText, error)

	// Available reports whether capture tooling exists on this host.
	Available() bool
}

// DecisionAugmenter asks an external judgment service (e.g. an AI
// provider) whether the observed activity matches the task. Advisory
// only: on failure or unparseable output the core policy alone decides,
// and a block-list verdict is never overridden.
type DecisionAugmenter interface {
	Assess(ctx context.Context, task, activeApp, screenText string) (*Assessment, error)
}

// Notifier delivers a desktop notification. Optional collaborator;
// failures are logged and swallowed.
type Notifier interface {
	Notify(title, message string) error
}

// KeyProvider abstracts the source of encryption keys for the
// secret store.
type KeyProvider interface {
	// GetKey returns the encryption key bytes.
	GetKey() ([]byte, error)

	// StoreKey persists a new encryption key.
	StoreKey(key []byte) error

	// KeyExists checks if a key has been generated.
	KeyExists() bool
}

// SecretStore provides encrypted persistent storage for credentials
// such as the augmenter API key. Secrets are written once and persist
// across monitor restarts.
type SecretStore interface {
	// GetSecret retrieves a secret by key.
	GetSecret(key string) (string, error)

	// SetSecret stores a secret.
	SetSecret(key, value string) error

	// GetAllSecrets returns all stored secrets.
	GetAllSecrets() (map[string]string, error)

	// Close releases resources (e.g., database connection).
	Close() error
}
